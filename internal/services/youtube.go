// YouTube Data API v3 implementation of the service ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytsweep/internal/dedupe"
	"ytsweep/internal/shared"
)

const (
	// pageSize matches the Data API maximum for playlistItems.list and
	// playlists.list.
	pageSize = 50

	// searchResults is the candidate count per query by convention.
	searchResults = 5

	// musicCategoryID is the YouTube video category for Music.
	musicCategoryID = "10"
)

// YouTubeService implements [PlaylistSource], [PlaylistMutator] and
// [CatalogSearcher] over the YouTube Data API v3.
type YouTubeService struct {
	yt *youtube.Service
}

// NewYouTubeService builds a service from an OAuth-authorized HTTP client.
func NewYouTubeService(ctx context.Context, client *http.Client) (*YouTubeService, error) {
	yt, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create YouTube client: %v", shared.ErrAuthFailed, err)
	}
	return &YouTubeService{yt: yt}, nil
}

// PlaylistInfo fetches the playlist title and item count.
func (s *YouTubeService) PlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	resp, err := s.yt.Playlists.List([]string{"snippet", "contentDetails"}).
		Id(playlistID).
		Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(shared.ErrRetrieval, err, "playlist lookup failed")
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	item := resp.Items[0]
	info := &PlaylistInfo{ID: item.Id, Title: item.Snippet.Title}
	if item.ContentDetails != nil {
		info.ItemCount = item.ContentDetails.ItemCount
	}
	return info, nil
}

// FetchEntries pages through playlistItems.list and flattens the results.
// When a page fetch fails the entries gathered so far are returned together
// with the error.
func (s *YouTubeService) FetchEntries(ctx context.Context, playlistID string) ([]dedupe.Entry, error) {
	var entries []dedupe.Entry
	pageToken := ""

	for {
		call := s.yt.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Context(ctx).Do()
		if err != nil {
			return entries, wrapAPIError(shared.ErrRetrieval, err, "playlist page fetch failed")
		}

		for _, item := range resp.Items {
			entries = append(entries, dedupe.Entry{
				VideoID:     item.ContentDetails.VideoId,
				PlacementID: item.Id,
				Title:       item.Snippet.Title,
				Artist:      ownerChannel(item.Snippet),
			})
		}

		if resp.NextPageToken == "" {
			return entries, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ownerChannel resolves the artist field for an entry. Playlist items expose
// the uploader as videoOwnerChannelTitle; older items only carry the adding
// channel's title.
func ownerChannel(snippet *youtube.PlaylistItemSnippet) string {
	if snippet.VideoOwnerChannelTitle != "" {
		return snippet.VideoOwnerChannelTitle
	}
	if snippet.ChannelTitle != "" {
		return snippet.ChannelTitle
	}
	return "Unknown"
}

// DeleteEntries removes playlist items one at a time, attempting every item
// regardless of earlier failures.
func (s *YouTubeService) DeleteEntries(ctx context.Context, placementIDs []string) (int, int) {
	ok, failed := 0, 0
	for _, id := range placementIDs {
		if err := s.yt.PlaylistItems.Delete(id).Context(ctx).Do(); err != nil {
			failed++
			continue
		}
		ok++
	}
	return ok, failed
}

// InsertEntry adds a video to the playlist.
func (s *YouTubeService) InsertEntry(ctx context.Context, playlistID, videoID string) error {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}

	if _, err := s.yt.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return wrapAPIError(shared.ErrMutation, err, fmt.Sprintf("failed to add video %s", videoID))
	}
	return nil
}

// CreatePlaylist creates a private playlist and returns its ID.
func (s *YouTubeService) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	playlist := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{PrivacyStatus: "private"},
	}

	resp, err := s.yt.Playlists.Insert([]string{"snippet", "status"}, playlist).Context(ctx).Do()
	if err != nil {
		return "", wrapAPIError(shared.ErrMutation, err, fmt.Sprintf("failed to create playlist %q", title))
	}
	return resp.Id, nil
}

// FindPlaylist scans the caller's playlists for a case-insensitive title
// match.
func (s *YouTubeService) FindPlaylist(ctx context.Context, title string) (string, error) {
	want := strings.TrimSpace(title)
	pageToken := ""

	for {
		call := s.yt.Playlists.List([]string{"snippet"}).Mine(true).MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Context(ctx).Do()
		if err != nil {
			return "", wrapAPIError(shared.ErrRetrieval, err, "playlist listing failed")
		}

		for _, item := range resp.Items {
			if strings.EqualFold(strings.TrimSpace(item.Snippet.Title), want) {
				return item.Id, nil
			}
		}

		if resp.NextPageToken == "" {
			return "", fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, title)
		}
		pageToken = resp.NextPageToken
	}
}

// SearchCandidates queries the catalog for music videos matching the query.
// The search text appends "music" to bias results toward the music category.
func (s *YouTubeService) SearchCandidates(ctx context.Context, q dedupe.Query) ([]dedupe.Candidate, error) {
	resp, err := s.yt.Search.List([]string{"snippet"}).
		Q(fmt.Sprintf("%s %s music", q.Title, q.Artist)).
		Type("video").
		VideoCategoryId(musicCategoryID).
		MaxResults(searchResults).
		Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(shared.ErrRetrieval, err, fmt.Sprintf("search failed for %q", q.Title))
	}

	candidates := make([]dedupe.Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		candidates = append(candidates, dedupe.Candidate{
			VideoID: item.Id.VideoId,
			Title:   item.Snippet.Title,
			Channel: item.Snippet.ChannelTitle,
		})
	}

	return candidates, nil
}

// wrapAPIError converts a Data API failure into the shared taxonomy,
// promoting quota exhaustion to its own sentinel.
func wrapAPIError(sentinel, err error, msg string) error {
	if IsQuotaError(err) {
		return fmt.Errorf("%w: %s: %v", shared.ErrQuotaExceeded, msg, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, msg, err)
}

// IsQuotaError reports whether err signals YouTube Data API quota or rate
// exhaustion, either as a raw [googleapi.Error] or already wrapped with
// [shared.ErrQuotaExceeded].
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shared.ErrQuotaExceeded) {
		return true
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code != http.StatusForbidden && gerr.Code != http.StatusTooManyRequests {
		return false
	}
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "quotaExceeded", "rateLimitExceeded", "dailyLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return gerr.Code == http.StatusTooManyRequests
}
