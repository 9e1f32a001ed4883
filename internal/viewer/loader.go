package viewer

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Faultbox/folio3d/internal/assets"
	"github.com/Faultbox/folio3d/internal/engine/scene"
)

// sceneLoader adapts a pipeline request to a scene.Loader.
func sceneLoader(p *assets.Pipeline, req assets.Request) scene.Loader {
	return func(ctx context.Context) scene.LoadResult {
		res := p.Load(ctx, req)
		source := res.ModelURL
		if res.Fallback {
			source = "fallback"
		}
		return scene.LoadResult{
			Mesh:     res.Mesh,
			Texture:  res.Texture,
			Fallback: res.Fallback,
			Source:   source,
		}
	}
}

// watchPaths returns the local files behind every URL the pipeline may
// read for req.
func watchPaths(p *assets.Pipeline, req assets.Request) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, s := range []assets.Strategy{assets.StrategyRelative, assets.StrategyOrigin} {
		modelURL, textureURL, err := p.URLs(s, req)
		if err != nil {
			continue
		}
		for _, u := range []string{modelURL, textureURL} {
			if path := assets.LocalPath(u); path != "" && !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}
	return paths
}

// invalidate drops every cached URL for req so the next load refetches.
func invalidate(m *assets.Manager, p *assets.Pipeline, req assets.Request) {
	for _, s := range []assets.Strategy{assets.StrategyRelative, assets.StrategyOrigin} {
		modelURL, textureURL, err := p.URLs(s, req)
		if err != nil {
			continue
		}
		m.Invalidate(modelURL)
		if textureURL != "" {
			m.Invalidate(textureURL)
		}
	}
}

// applyDrop replaces the model or the texture of req with a dropped file.
func applyDrop(req assets.Request, path string) assets.Request {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	ref := (&url.URL{Scheme: "file", Path: slashed}).String()
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		req.Model = ref
	} else {
		req.Texture = ref
	}
	return req
}
