package envutil

import "testing"

func TestFilterSwitcherEnv(t *testing.T) {
	env := []string{
		"PATH=/usr/bin",
		"TRACKSWITCH_TRACK=dev",
		"LANG=en_US.UTF-8",
		"TRACKSWITCH_ROOT=/var/lib/trackswitch",
	}

	filtered := FilterSwitcherEnv(env)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 variables, got %v", filtered)
	}
	for _, e := range filtered {
		if IsSwitcherEnv(e) {
			t.Fatalf("internal variable leaked: %s", e)
		}
	}
}

func TestIsSwitcherEnv(t *testing.T) {
	if !IsSwitcherEnv("TRACKSWITCH_TRACK=stable") {
		t.Fatalf("TRACKSWITCH_TRACK not recognized as internal")
	}
	if IsSwitcherEnv("PATH=/usr/bin") {
		t.Fatalf("PATH misclassified as internal")
	}
}
