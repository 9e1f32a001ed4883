package math

import (
	"math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return the zero vector")
	}
}

func TestVec3Array(t *testing.T) {
	a := [3]float32{1.5, -2, 3}
	if got := V3(a).Array(); got != a {
		t.Errorf("V3(a).Array() = %v, want %v", got, a)
	}
}

func TestDegToRad(t *testing.T) {
	got := DegToRad(90)
	if abs(got-float32(math.Pi/2)) > 1e-6 {
		t.Errorf("DegToRad(90) = %v, want pi/2", got)
	}
	if back := RadToDeg(got); abs(back-90) > 1e-4 {
		t.Errorf("RadToDeg(DegToRad(90)) = %v, want 90", back)
	}
}
