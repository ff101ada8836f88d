package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"ytsweep/internal/shared"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{
			"403 quotaExceeded",
			&googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}},
			true,
		},
		{
			"403 rateLimitExceeded",
			&googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}},
			true,
		},
		{
			"403 forbidden for another reason",
			&googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "playlistItemsNotAccessible"}}},
			false,
		},
		{"429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"404", &googleapi.Error{Code: http.StatusNotFound}, false},
		{
			"wrapped googleapi error",
			fmt.Errorf("insert failed: %w", &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}),
			true,
		},
		{
			"wrapped sentinel",
			fmt.Errorf("%w: creating playlist", shared.ErrQuotaExceeded),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapAPIErrorPromotesQuota(t *testing.T) {
	quota := &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}

	err := wrapAPIError(shared.ErrMutation, quota, "create playlist")
	if !errors.Is(err, shared.ErrQuotaExceeded) {
		t.Errorf("quota failure should wrap ErrQuotaExceeded, got %v", err)
	}

	err = wrapAPIError(shared.ErrMutation, errors.New("network down"), "create playlist")
	if !errors.Is(err, shared.ErrMutation) {
		t.Errorf("non-quota failure should wrap the given sentinel, got %v", err)
	}
	if errors.Is(err, shared.ErrQuotaExceeded) {
		t.Error("non-quota failure must not wrap ErrQuotaExceeded")
	}
}

func TestOwnerChannelFallback(t *testing.T) {
	tests := []struct {
		name    string
		snippet *youtube.PlaylistItemSnippet
		want    string
	}{
		{
			"owner channel preferred",
			&youtube.PlaylistItemSnippet{VideoOwnerChannelTitle: "The Beatles", ChannelTitle: "Someone Else"},
			"The Beatles",
		},
		{
			"falls back to channel title",
			&youtube.PlaylistItemSnippet{ChannelTitle: "Uploader"},
			"Uploader",
		},
		{
			"unknown when both missing",
			&youtube.PlaylistItemSnippet{},
			"Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ownerChannel(tt.snippet); got != tt.want {
				t.Errorf("ownerChannel() = %q, want %q", got, tt.want)
			}
		})
	}
}
