package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

func profileBehavior() model.Behavior {
	b := model.DefaultBehavior()
	cur := model.Absolute(120)
	b.Detents = model.NewDetentSet([]model.Detent{model.Absolute(120), model.Relative(0.5), model.Relative(1)}, &cur, 800)
	return b
}

func TestSaveSnapProfile_SVGAndPNG(t *testing.T) {
	tmp := t.TempDir()
	cases := []struct {
		name string
		file string
	}{
		{"svg", "profile.svg"},
		{"png", "profile.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, "plots", tc.file)
			err := SaveSnapProfile(SnapProfileOptions{
				Path:     out,
				Behavior: profileBehavior(),
				Height:   800,
			})
			if err != nil {
				t.Fatalf("SaveSnapProfile error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatalf("output file is empty")
			}
		})
	}
}

func TestSaveSnapProfile_SVGLabels(t *testing.T) {
	out := filepath.Join(t.TempDir(), "profile.svg")
	err := SaveSnapProfile(SnapProfileOptions{
		Path:     out,
		Behavior: profileBehavior(),
		Height:   800,
		Labels: func(d model.Detent) string {
			if d == model.Relative(1) {
				return "full"
			}
			return d.String()
		},
	})
	if err != nil {
		t.Fatalf("SaveSnapProfile error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", "full", "50%", "120pt", "polyline"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestSaveSnapProfile_InvalidFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "profile.txt")
	err := SaveSnapProfile(SnapProfileOptions{
		Path:     out,
		Behavior: profileBehavior(),
	})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("no file should be written for an unknown format")
	}
}

func TestProfileFollowsEngine(t *testing.T) {
	b := profileBehavior()
	points := Profile(SnapProfileOptions{
		Behavior:     b,
		Height:       800,
		Translations: [2]float64{-800, 200},
	})
	if len(points) != profileSteps+1 {
		t.Fatalf("expected %d points, got %d", profileSteps+1, len(points))
	}
	if points[0].Translation != -800 || points[len(points)-1].Translation != 200 {
		t.Fatalf("unexpected range %v..%v", points[0].Translation, points[len(points)-1].Translation)
	}

	for i := 1; i < len(points); i++ {
		if points[i].Height > points[i-1].Height+1e-9 {
			t.Fatalf("height must not grow as translation increases: %v then %v", points[i-1], points[i])
		}
	}
	// Dragging all the way up settles on the largest detent.
	if points[0].Target != 800 {
		t.Fatalf("expected target 800 at full upward drag, got %v", points[0].Target)
	}
	// Overtravel past the largest detent is damped.
	if points[0].Height >= 120+800 || points[0].Height <= 800 {
		t.Fatalf("expected damped overtravel above 800, got %v", points[0].Height)
	}
	if b.Detents.Current() != model.Absolute(120) {
		t.Fatal("profiling must not change the current detent")
	}
}
