package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                             "/",
		"/metrics":                     "/metrics",
		"/v1/users":                    "/v1/users",
		"/v1/users/01ARZ3NDEKTSV4RR":   "/v1/users/:id",
		"/v1/users/auth":               "/v1/users/auth",
		"/v1/users/conf":               "/v1/users/conf",
		"/v1/people/abc":               "/v1/people/:id",
		"/v1/people/abc?fields=name":   "/v1/people/:id",
		"/v1/people/abc/extra":         "/v1/people/abc/extra",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
