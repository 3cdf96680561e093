package env

import "testing"

func TestParseForced(t *testing.T) {
	cases := map[string]int{
		"":    0,
		"0":   0,
		"1":   1,
		"2":   2,
		"3":   0,
		"-1":  0,
		"pro": 0,
	}
	for in, want := range cases {
		if got := parseForced(in); got != want {
			t.Errorf("parseForced(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestStaticLookupEnv(t *testing.T) {
	s := Static{Vars: map[string]string{"HTTP_HOST": "crm.local"}}
	if v, ok := s.LookupEnv("HTTP_HOST"); !ok || v != "crm.local" {
		t.Fatalf("LookupEnv = %q, %v", v, ok)
	}
	if _, ok := s.LookupEnv("HTTPS"); ok {
		t.Fatalf("unexpected HTTPS var")
	}
}
