package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/login":                    "/login",
		"/expenses":                 "/expenses",
		"/expenses/01J5X2":          "/expenses/:id",
		"/expenses/01J5X2/extra":    "/expenses/01J5X2/extra",
		"/expenses?category=food":   "/expenses",
		"/forgot-password":          "/forgot-password",
		"/expenses/01J5X2?fields=1": "/expenses/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
