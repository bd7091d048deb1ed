package instagramimpl

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
)

// decodeProfile parses the web_profile_info payload into the canonical
// Profile aggregate. The payload is an unversioned external contract, so
// every optional field is extracted with attempt-or-absent semantics; only a
// missing user object or missing id/username/is_private fails the decode.
func decodeProfile(data []byte) (*domain.Profile, error) {
	var root struct {
		Data struct {
			User json.RawMessage `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", instagram.ErrMalformedResponse, err)
	}

	user, ok := rawObject(root.Data.User)
	if !ok {
		return nil, fmt.Errorf("%w: missing user object", instagram.ErrMalformedResponse)
	}

	id, okID := rawString(user["id"])
	name, okName := rawString(user["username"])
	isPrivate, okPrivate := rawBool(user["is_private"])
	if !okID || !okName || !okPrivate || id == "" || name == "" {
		return nil, fmt.Errorf("%w: missing identity fields", instagram.ErrMalformedResponse)
	}

	profile := &domain.Profile{
		User: domain.User{
			ID:             id,
			Username:       name,
			FullName:       optString(user["full_name"]),
			Biography:      optString(user["biography"]),
			ProfilePicURL:  optString(user["profile_pic_url"]),
			IsPrivate:      isPrivate,
			FollowerCount:  edgeCount(user["edge_followed_by"]),
			FollowingCount: edgeCount(user["edge_follow"]),
			PostCount:      edgeCount(user["edge_owner_to_timeline_media"]),
		},
	}

	// Posts stay empty for private accounts even when the payload carries
	// media edges.
	if isPrivate {
		return profile, nil
	}

	timeline, ok := rawObject(user["edge_owner_to_timeline_media"])
	if !ok {
		return profile, nil
	}
	profile.Posts = decodePosts(timeline["edges"])

	return profile, nil
}

func decodePosts(raw json.RawMessage) []domain.Post {
	var edges []struct {
		Node json.RawMessage `json:"node"`
	}
	if raw == nil || json.Unmarshal(raw, &edges) != nil {
		return nil
	}

	posts := make([]domain.Post, 0, len(edges))
	for _, edge := range edges {
		node, ok := rawObject(edge.Node)
		if !ok {
			continue
		}
		id, ok := rawString(node["id"])
		if !ok || id == "" {
			continue
		}
		images := imageURLs(node)
		if len(images) == 0 {
			// A post with no resolvable images is dropped, never built empty.
			continue
		}
		posts = append(posts, domain.Post{
			ID:           id,
			ImageURLs:    images,
			Caption:      captionText(node["edge_media_to_caption"]),
			LikeCount:    edgeCount(node["edge_liked_by"]),
			CommentCount: edgeCount(node["edge_media_to_comment"]),
			PostedAt:     epochTime(node["taken_at_timestamp"]),
		})
	}
	return posts
}

// imageURLs resolves the display images of a media node: the sidecar
// children in order for carousels, otherwise the node's own display_url.
func imageURLs(node map[string]json.RawMessage) []string {
	if sidecar, ok := rawObject(node["edge_sidecar_to_children"]); ok {
		if edgesRaw, exists := sidecar["edges"]; exists {
			var children []struct {
				Node struct {
					DisplayURL string `json:"display_url"`
				} `json:"node"`
			}
			if json.Unmarshal(edgesRaw, &children) == nil {
				urls := make([]string, 0, len(children))
				for _, child := range children {
					if child.Node.DisplayURL != "" {
						urls = append(urls, child.Node.DisplayURL)
					}
				}
				return urls
			}
		}
	}

	if u, ok := rawString(node["display_url"]); ok && u != "" {
		return []string{u}
	}
	return nil
}

// captionText walks edge_media_to_caption.edges[0].node.text and reports nil
// when any link of the chain is absent.
func captionText(raw json.RawMessage) *string {
	obj, ok := rawObject(raw)
	if !ok {
		return nil
	}
	var edges []struct {
		Node struct {
			Text *string `json:"text"`
		} `json:"node"`
	}
	if json.Unmarshal(obj["edges"], &edges) != nil || len(edges) == 0 {
		return nil
	}
	return edges[0].Node.Text
}

// edgeCount unwraps the {count: N, edges: [...]} shape the schema uses for
// counters, discarding everything but the count. A bare integer is accepted
// too.
func edgeCount(raw json.RawMessage) *int {
	if isAbsent(raw) {
		return nil
	}
	var wrapped struct {
		Count *int `json:"count"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.Count != nil {
		return wrapped.Count
	}
	var n int
	if json.Unmarshal(raw, &n) == nil {
		return &n
	}
	return nil
}

func epochTime(raw json.RawMessage) *time.Time {
	if isAbsent(raw) {
		return nil
	}
	var secs int64
	if json.Unmarshal(raw, &secs) != nil {
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}

// isAbsent treats a missing field and an explicit JSON null the same way.
// Unmarshalling null into a non-pointer target is a silent no-op, so the
// extractors must reject it up front instead of reading a zero value.
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func rawObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func rawString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func rawBool(raw json.RawMessage) (bool, bool) {
	if isAbsent(raw) {
		return false, false
	}
	var b bool
	if json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}

func optString(raw json.RawMessage) *string {
	s, ok := rawString(raw)
	if !ok {
		return nil
	}
	return &s
}
