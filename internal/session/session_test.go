package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCookiesIDFromRequest(t *testing.T) {
	c := Cookies{Name: "crm"}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := c.IDFromRequest(r); ok {
		t.Fatal("expected no id without cookie")
	}

	r.AddCookie(&http.Cookie{Name: "crm", Value: "abc"})
	id, ok := c.IDFromRequest(r)
	if !ok || id != "abc" {
		t.Fatalf("IDFromRequest = %q, %v", id, ok)
	}
}

func TestCookiesDefaultName(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "xyz"})
	if id, ok := (Cookies{}).IDFromRequest(r); !ok || id != "xyz" {
		t.Fatalf("IDFromRequest = %q, %v", id, ok)
	}
}

func TestCookiesClear(t *testing.T) {
	rr := httptest.NewRecorder()
	Cookies{Name: "crm"}.ClearCookie(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "crm" || cookies[0].MaxAge >= 0 {
		t.Fatalf("unexpected cookies: %#v", cookies)
	}
}
