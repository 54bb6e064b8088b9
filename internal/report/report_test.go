package report

import (
	"context"
	"errors"
	"testing"

	"echo/internal/bungie"
)

type recordingRunner struct {
	name string
	args []string
	err  error
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func TestURL(t *testing.T) {
	l := NewLauncher("", "", nil)
	member := bungie.Member{MembershipID: "123", PlatformID: 3}
	want := "https://destinytrialsreport.com/report/3/123"
	if got := l.URL(member); got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}

func TestURLCustomHost(t *testing.T) {
	l := NewLauncher("report.example.com", "", nil)
	member := bungie.Member{MembershipID: "9", PlatformID: 1}
	if got := l.URL(member); got != "https://report.example.com/report/1/9" {
		t.Fatalf("unexpected URL %q", got)
	}
}

func TestLaunchOpensBrowser(t *testing.T) {
	l := NewLauncher("", "", nil)
	var opened string
	l.open = func(url string) error {
		opened = url
		return nil
	}

	if err := l.Launch(context.Background(), bungie.Member{MembershipID: "123", PlatformID: 3}); err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}
	if opened != "https://destinytrialsreport.com/report/3/123" {
		t.Fatalf("opened wrong URL %q", opened)
	}
}

func TestLaunchSurfacesBrowserFailure(t *testing.T) {
	l := NewLauncher("", "", nil)
	l.open = func(string) error { return errors.New("no browser") }

	if err := l.Launch(context.Background(), bungie.Member{MembershipID: "123", PlatformID: 3}); err == nil {
		t.Fatal("expected error when browser launch fails")
	}
}

func TestLaunchSoundFailureIsIgnored(t *testing.T) {
	l := NewLauncher("", "launched.wav", nil)
	runner := &recordingRunner{err: errors.New("no audio device")}
	l.runner = runner
	var opened bool
	l.open = func(string) error {
		opened = true
		return nil
	}

	if err := l.Launch(context.Background(), bungie.Member{MembershipID: "1", PlatformID: 2}); err != nil {
		t.Fatalf("sound failure must not fail the launch: %v", err)
	}
	if !opened {
		t.Fatal("browser should still open after a sound failure")
	}
	if runner.name == "" {
		t.Fatal("sound player should have been invoked")
	}
}
