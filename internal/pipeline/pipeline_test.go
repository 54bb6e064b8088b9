package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"echo/internal/bungie"
	"echo/internal/extraction"
	"echo/internal/identity"
	"echo/internal/pipeline"
)

type stubStrategy struct {
	name   string
	result extraction.Result
	err    error
	calls  int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(ctx context.Context, imagePath string) (extraction.Result, error) {
	s.calls++
	return s.result, s.err
}

type stubResolver struct {
	member *bungie.Member
	err    error
	calls  int
	lastID identity.BungieID
}

func (s *stubResolver) ResolveMember(ctx context.Context, id identity.BungieID) (*bungie.Member, error) {
	s.calls++
	s.lastID = id
	return s.member, s.err
}

type stubLauncher struct {
	launched []bungie.Member
	err      error
}

func (s *stubLauncher) Launch(ctx context.Context, member bungie.Member) error {
	s.launched = append(s.launched, member)
	return s.err
}

func strategies(primary, secondary extraction.Strategy) map[extraction.Engine]extraction.Strategy {
	return map[extraction.Engine]extraction.Strategy{
		extraction.EngineOCR:    primary,
		extraction.EngineVision: secondary,
	}
}

func newController(t *testing.T, cfg pipeline.Config, s map[extraction.Engine]extraction.Strategy, r pipeline.Resolver, l pipeline.Launcher, n pipeline.Normalizer) *pipeline.Controller {
	t.Helper()
	c, err := pipeline.NewController(cfg, s, r, l, n, nil)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	return c
}

func TestHandleScreenshotHappyPath(t *testing.T) {
	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{member: &bungie.Member{MembershipID: "123", PlatformID: 3}}
	launcher := &stubLauncher{}

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR}, strategies(primary, &stubStrategy{name: "vision"}), resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if resolver.calls != 1 {
		t.Fatalf("resolver called %d times, want 1", resolver.calls)
	}
	if resolver.lastID != (identity.BungieID{Name: "mesh", Code: "3230"}) {
		t.Fatalf("resolver saw wrong id: %#v", resolver.lastID)
	}
	if len(launcher.launched) != 1 || launcher.launched[0].MembershipID != "123" || launcher.launched[0].PlatformID != 3 {
		t.Fatalf("unexpected launches: %#v", launcher.launched)
	}
}

func TestHandleScreenshotInvalidIDSkipsResolver(t *testing.T) {
	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "garbage"}}
	resolver := &stubResolver{}
	launcher := &stubLauncher{}

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR}, strategies(primary, &stubStrategy{name: "vision"}), resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if resolver.calls != 0 {
		t.Fatal("resolver must not run for an unparseable identifier")
	}
	if len(launcher.launched) != 0 {
		t.Fatal("nothing should launch without an account")
	}
}

func TestHandleScreenshotInvalidIDTriggersFallback(t *testing.T) {
	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "garbage"}}
	secondary := &stubStrategy{name: "vision", result: extraction.Result{IDString: "mesh#3230", Confidence: 0.9}}
	resolver := &stubResolver{member: &bungie.Member{MembershipID: "123", PlatformID: 3}}
	launcher := &stubLauncher{}

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR, Fallback: true}, strategies(primary, secondary), resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if secondary.calls != 1 {
		t.Fatalf("fallback strategy called %d times, want 1", secondary.calls)
	}
	if len(launcher.launched) != 1 {
		t.Fatalf("expected one launch, got %d", len(launcher.launched))
	}
}

func TestHandleScreenshotExtractionErrorFallsBack(t *testing.T) {
	primary := &stubStrategy{name: "vision", err: errors.New("api down")}
	secondary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{member: &bungie.Member{MembershipID: "123", PlatformID: 3}}
	launcher := &stubLauncher{}

	s := map[extraction.Engine]extraction.Strategy{
		extraction.EngineVision: primary,
		extraction.EngineOCR:    secondary,
	}
	c := newController(t, pipeline.Config{Engine: extraction.EngineVision, Fallback: true}, s, resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("expected one call each, got primary=%d secondary=%d", primary.calls, secondary.calls)
	}
	if len(launcher.launched) != 1 {
		t.Fatal("fallback result should have launched")
	}
}

func TestHandleScreenshotFallbackDisabled(t *testing.T) {
	primary := &stubStrategy{name: "ocr", err: errors.New("unreadable")}
	secondary := &stubStrategy{name: "vision", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{member: &bungie.Member{MembershipID: "123", PlatformID: 3}}
	launcher := &stubLauncher{}

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR, Fallback: false}, strategies(primary, secondary), resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if secondary.calls != 0 {
		t.Fatal("fallback must not run when disabled")
	}
	if len(launcher.launched) != 0 {
		t.Fatal("nothing should launch when the only attempt failed")
	}
}

func TestHandleScreenshotNoAccountFoundFallsBackOnce(t *testing.T) {
	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "mesh#3230"}}
	secondary := &stubStrategy{name: "vision", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{member: nil} // account not found, both attempts
	launcher := &stubLauncher{}

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR, Fallback: true}, strategies(primary, secondary), resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("expected exactly one attempt per engine, got %d and %d", primary.calls, secondary.calls)
	}
	if resolver.calls != 2 {
		t.Fatalf("resolver called %d times, want 2", resolver.calls)
	}
	if len(launcher.launched) != 0 {
		t.Fatal("no launch expected when both attempts find nothing")
	}
}

func TestHandleScreenshotResolverErrorDoesNotCrash(t *testing.T) {
	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{err: &bungie.StatusError{Code: 500, Body: "boom"}}
	launcher := &stubLauncher{}

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR}, strategies(primary, &stubStrategy{name: "vision"}), resolver, launcher, nil)
	c.HandleScreenshot(context.Background(), "shot.png")

	if len(launcher.launched) != 0 {
		t.Fatal("resolver failure must not launch a report")
	}
}

func TestHandleScreenshotDeletesTempFile(t *testing.T) {
	dir := t.TempDir()
	var produced string
	normalize := func(path string) (string, error) {
		f := filepath.Join(dir, "converted.jpg")
		if err := os.WriteFile(f, []byte("jpeg"), 0o644); err != nil {
			return "", err
		}
		produced = f
		return f, nil
	}

	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "garbage"}}
	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR}, strategies(primary, &stubStrategy{name: "vision"}), &stubResolver{}, &stubLauncher{}, normalize)
	c.HandleScreenshot(context.Background(), "shot.png")

	if produced == "" {
		t.Fatal("normalizer did not run")
	}
	if _, err := os.Stat(produced); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temporary file should be deleted on parse failure, stat err = %v", err)
	}
}

func TestHandleScreenshotDeletesTempFileOnSuccess(t *testing.T) {
	dir := t.TempDir()
	var produced string
	normalize := func(path string) (string, error) {
		f := filepath.Join(dir, "converted.jpg")
		if err := os.WriteFile(f, []byte("jpeg"), 0o644); err != nil {
			return "", err
		}
		produced = f
		return f, nil
	}

	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{member: &bungie.Member{MembershipID: "123", PlatformID: 3}}
	launcher := &stubLauncher{}
	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR}, strategies(primary, &stubStrategy{name: "vision"}), resolver, launcher, normalize)
	c.HandleScreenshot(context.Background(), "shot.png")

	if len(launcher.launched) != 1 {
		t.Fatal("expected a launch")
	}
	if _, err := os.Stat(produced); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temporary file should be deleted after success, stat err = %v", err)
	}
}

func TestHandleScreenshotNormalizeFailureStops(t *testing.T) {
	primary := &stubStrategy{name: "ocr", result: extraction.Result{IDString: "mesh#3230"}}
	resolver := &stubResolver{member: &bungie.Member{MembershipID: "123", PlatformID: 3}}
	launcher := &stubLauncher{}
	normalize := func(string) (string, error) { return "", errors.New("bad image") }

	c := newController(t, pipeline.Config{Engine: extraction.EngineOCR}, strategies(primary, &stubStrategy{name: "vision"}), resolver, launcher, normalize)
	c.HandleScreenshot(context.Background(), "shot.png")

	if primary.calls != 0 || len(launcher.launched) != 0 {
		t.Fatal("nothing should run when normalization fails")
	}
}

func TestNewControllerValidation(t *testing.T) {
	s := strategies(&stubStrategy{name: "ocr"}, &stubStrategy{name: "vision"})

	if _, err := pipeline.NewController(pipeline.Config{Engine: extraction.EngineOCR}, s, nil, &stubLauncher{}, nil, nil); err == nil {
		t.Fatal("expected error for nil resolver")
	}
	if _, err := pipeline.NewController(pipeline.Config{Engine: extraction.EngineOCR}, s, &stubResolver{}, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil launcher")
	}
	only := map[extraction.Engine]extraction.Strategy{extraction.EngineOCR: &stubStrategy{name: "ocr"}}
	if _, err := pipeline.NewController(pipeline.Config{Engine: extraction.EngineVision}, only, &stubResolver{}, &stubLauncher{}, nil, nil); err == nil {
		t.Fatal("expected error when primary engine has no strategy")
	}
	if _, err := pipeline.NewController(pipeline.Config{Engine: extraction.EngineOCR, Fallback: true}, only, &stubResolver{}, &stubLauncher{}, nil, nil); err == nil {
		t.Fatal("expected error when fallback engine has no strategy")
	}
}
