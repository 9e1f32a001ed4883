package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/engine/model"
	"github.com/Faultbox/folio3d/internal/engine/texture"
	"github.com/Faultbox/folio3d/internal/logger"
)

// Strategy names how a pipeline result was obtained.
type Strategy int

const (
	StrategyRelative Strategy = iota
	StrategyOrigin
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyRelative:
		return "relative"
	case StrategyOrigin:
		return "origin"
	case StrategyFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Request names the model and texture to load. References are resolved by
// the pipeline's Resolver. An empty Texture means the flat white texture.
type Request struct {
	Model   string
	Texture string
}

// Result is the outcome of Pipeline.Load. Mesh and Texture are always set.
// Err holds the last failure when Fallback is true.
type Result struct {
	Mesh       *model.Mesh
	Texture    *image.RGBA
	Strategy   Strategy
	Fallback   bool
	Err        error
	ModelURL   string
	TextureURL string
}

// Pipeline loads a mesh and texture pair with a two-tier path fallback and a
// procedural last resort. Attempts run one after the other, never in parallel.
type Pipeline struct {
	fetcher  Fetcher
	resolver *Resolver
	log      *zap.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(fetcher Fetcher, resolver *Resolver) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		resolver: resolver,
		log:      logger.Named("pipeline"),
	}
}

// Load tries the page-relative URLs, then exactly once the origin-rooted
// URLs, and finally returns the fallback quad with a white texture. It never
// fails; a cancelled context goes straight to the fallback.
func (p *Pipeline) Load(ctx context.Context, req Request) Result {
	var lastErr error

	for _, strategy := range []Strategy{StrategyRelative, StrategyOrigin} {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		res, err := p.attempt(ctx, strategy, req)
		if err == nil {
			p.log.Info("model loaded",
				zap.Stringer("strategy", strategy),
				zap.String("model", res.ModelURL),
				zap.String("texture", res.TextureURL),
				zap.Int("vertices", res.Mesh.VertexCount),
				zap.Int("triangles", res.Mesh.TriangleCount()),
			)
			return res
		}
		lastErr = err
		p.log.Warn("load attempt failed",
			zap.Stringer("strategy", strategy),
			zap.String("model", res.ModelURL),
			zap.String("texture", res.TextureURL),
			zap.Error(err),
		)
	}

	mesh := model.FallbackQuad()
	p.log.Warn("using fallback quad",
		zap.Int("vertices", mesh.VertexCount),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Error(lastErr),
	)
	return Result{
		Mesh:     mesh,
		Texture:  texture.White(),
		Strategy: StrategyFallback,
		Fallback: true,
		Err:      lastErr,
	}
}

// URLs returns the model and texture URLs for a strategy.
func (p *Pipeline) URLs(strategy Strategy, req Request) (modelURL, textureURL string, err error) {
	resolve := p.resolver.Relative
	if strategy == StrategyOrigin {
		resolve = p.resolver.Origin
	}
	if req.Model == "" {
		return "", "", errors.New("no model requested")
	}
	if modelURL, err = resolve(req.Model); err != nil {
		return "", "", err
	}
	if req.Texture != "" {
		if textureURL, err = resolve(req.Texture); err != nil {
			return "", "", err
		}
	}
	return modelURL, textureURL, nil
}

func (p *Pipeline) attempt(ctx context.Context, strategy Strategy, req Request) (Result, error) {
	res := Result{Strategy: strategy}
	var err error
	res.ModelURL, res.TextureURL, err = p.URLs(strategy, req)
	if err != nil {
		return res, err
	}
	p.log.Debug("load attempt",
		zap.Stringer("strategy", strategy),
		zap.String("model", res.ModelURL),
		zap.String("texture", res.TextureURL),
	)

	objData, err := p.fetcher.Fetch(ctx, res.ModelURL)
	if err != nil {
		return res, fmt.Errorf("model: %w", err)
	}
	if res.Mesh, err = model.ParseOBJ(objData); err != nil {
		return res, fmt.Errorf("model %s: %w", res.ModelURL, err)
	}

	if res.TextureURL == "" {
		res.Texture = texture.White()
		return res, nil
	}
	texData, err := p.fetcher.Fetch(ctx, res.TextureURL)
	if err != nil {
		return res, fmt.Errorf("texture: %w", err)
	}
	if res.Texture, err = texture.Decode(texData, path.Base(res.TextureURL)); err != nil {
		return res, fmt.Errorf("texture %s: %w", res.TextureURL, err)
	}
	p.log.Debug("texture decoded",
		zap.String("url", res.TextureURL),
		zap.Int("width", res.Texture.Bounds().Dx()),
		zap.Int("height", res.Texture.Bounds().Dy()),
		zap.Bool("powerOfTwo", texture.IsPowerOfTwo(res.Texture.Bounds().Dx()) && texture.IsPowerOfTwo(res.Texture.Bounds().Dy())),
	)
	return res, nil
}
