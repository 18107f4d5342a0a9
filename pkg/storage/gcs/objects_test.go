package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func fakeClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	return &Client{
		defaultBucket: "bucket",
		tokenSource: &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
			return "token", time.Now().Add(time.Hour), nil
		}},
		httpClient: &http.Client{Transport: rt},
	}
}

func TestUploadObjectSuccess(t *testing.T) {
	t.Parallel()

	client := fakeClient(t, func(req *http.Request) *http.Response {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		if req.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
		}
		if !strings.Contains(req.URL.RawQuery, "uploadType=media") {
			t.Fatalf("expected media upload, got query %s", req.URL.RawQuery)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"name":"listings/file.png"}`)),
			Header:     http.Header{},
		}
	})

	got, err := client.UploadObject(context.Background(), "", "listings/file.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	want := "https://storage.googleapis.com/bucket/listings/file.png"
	if got != want {
		t.Fatalf("expected url %s, got %s", want, got)
	}
}

func TestUploadObjectValidation(t *testing.T) {
	t.Parallel()

	client := fakeClient(t, func(req *http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})

	cases := []struct {
		name        string
		object      string
		contentType string
		data        []byte
	}{
		{"missing object", "", "image/png", []byte("data")},
		{"missing contentType", "listings/file.png", "", []byte("data")},
		{"empty data", "listings/file.png", "image/png", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.UploadObject(context.Background(), "bucket", tc.object, tc.contentType, tc.data); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestDeleteObjectNotFoundIsOK(t *testing.T) {
	t.Parallel()

	client := fakeClient(t, func(req *http.Request) *http.Response {
		if req.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", req.Method)
		}
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.DeleteObject(context.Background(), "bucket", "listings/file.png"); err != nil {
		t.Fatalf("DeleteObject not found should succeed: %v", err)
	}
}
