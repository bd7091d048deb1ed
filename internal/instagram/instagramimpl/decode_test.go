package instagramimpl

import (
	"fmt"
	"testing"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userPayload(extra string) []byte {
	return []byte(fmt.Sprintf(`{
		"data": {
			"user": {
				"id": "123",
				"username": "foo.bar",
				"is_private": false
				%s
			}
		}
	}`, extra))
}

func TestDecodeProfileMinimal(t *testing.T) {
	profile, err := decodeProfile(userPayload(""))
	require.NoError(t, err)

	assert.Equal(t, "123", profile.User.ID)
	assert.Equal(t, "foo.bar", profile.User.Username)
	assert.False(t, profile.User.IsPrivate)
	assert.Nil(t, profile.User.FullName)
	assert.Nil(t, profile.User.FollowerCount)
	assert.Empty(t, profile.Posts)
}

func TestDecodeProfileCounters(t *testing.T) {
	profile, err := decodeProfile(userPayload(`,
		"full_name": "Foo Bar",
		"biography": "hello",
		"profile_pic_url": "https://cdn.example/pic.jpg",
		"edge_followed_by": {"count": 42},
		"edge_follow": {"count": 7},
		"edge_owner_to_timeline_media": {"count": 3, "edges": []}`))
	require.NoError(t, err)

	require.NotNil(t, profile.User.FollowerCount)
	assert.Equal(t, 42, *profile.User.FollowerCount)
	require.NotNil(t, profile.User.FollowingCount)
	assert.Equal(t, 7, *profile.User.FollowingCount)
	require.NotNil(t, profile.User.PostCount)
	assert.Equal(t, 3, *profile.User.PostCount)
	require.NotNil(t, profile.User.FullName)
	assert.Equal(t, "Foo Bar", *profile.User.FullName)
}

func TestDecodeProfileMissingCounterIsNil(t *testing.T) {
	// edge_followed_by absent entirely: not an error, not zero.
	profile, err := decodeProfile(userPayload(`, "edge_follow": {"count": 1}`))
	require.NoError(t, err)

	assert.Nil(t, profile.User.FollowerCount)
	require.NotNil(t, profile.User.FollowingCount)
}

func TestDecodeProfileNullCounterIsNil(t *testing.T) {
	profile, err := decodeProfile(userPayload(`, "edge_followed_by": null, "full_name": null`))
	require.NoError(t, err)

	assert.Nil(t, profile.User.FollowerCount)
	assert.Nil(t, profile.User.FullName)
}

func TestDecodeProfilePrivateAccountDropsPosts(t *testing.T) {
	payload := []byte(`{
		"data": {
			"user": {
				"id": "123",
				"username": "foo.bar",
				"is_private": true,
				"edge_owner_to_timeline_media": {
					"count": 1,
					"edges": [
						{"node": {"id": "p1", "display_url": "https://cdn.example/p1.jpg"}}
					]
				}
			}
		}
	}`)

	profile, err := decodeProfile(payload)
	require.NoError(t, err)

	assert.True(t, profile.User.IsPrivate)
	assert.Empty(t, profile.Posts)
}

func TestDecodeProfileNullUserFails(t *testing.T) {
	_, err := decodeProfile([]byte(`{"data": {"user": null}}`))
	assert.ErrorIs(t, err, instagram.ErrMalformedResponse)
}

func TestDecodeProfileMissingIdentityFails(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"data": {"user": {"username": "x", "is_private": false}}}`),
		[]byte(`{"data": {"user": {"id": "1", "is_private": false}}}`),
		[]byte(`{"data": {"user": {"id": "1", "username": "x"}}}`),
	}

	for _, payload := range payloads {
		_, err := decodeProfile(payload)
		assert.ErrorIs(t, err, instagram.ErrMalformedResponse)
	}
}

func TestDecodeProfileGarbageFails(t *testing.T) {
	_, err := decodeProfile([]byte(`<html>rate limited</html>`))
	assert.ErrorIs(t, err, instagram.ErrMalformedResponse)
}

func TestDecodeProfileSingleImagePost(t *testing.T) {
	payload := userPayload(`,
		"edge_owner_to_timeline_media": {
			"count": 1,
			"edges": [
				{"node": {
					"id": "p1",
					"display_url": "https://cdn.example/p1.jpg",
					"edge_liked_by": {"count": 10},
					"edge_media_to_comment": {"count": 2},
					"taken_at_timestamp": 1700000000,
					"edge_media_to_caption": {
						"edges": [{"node": {"text": "hello @world"}}]
					}
				}}
			]
		}`)

	profile, err := decodeProfile(payload)
	require.NoError(t, err)
	require.Len(t, profile.Posts, 1)

	post := profile.Posts[0]
	assert.Equal(t, []string{"https://cdn.example/p1.jpg"}, post.ImageURLs)
	assert.False(t, post.IsCarousel())
	require.NotNil(t, post.Caption)
	assert.Equal(t, "hello @world", *post.Caption)
	require.NotNil(t, post.LikeCount)
	assert.Equal(t, 10, *post.LikeCount)
	require.NotNil(t, post.CommentCount)
	assert.Equal(t, 2, *post.CommentCount)
	require.NotNil(t, post.PostedAt)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *post.PostedAt)
}

func TestDecodeProfileCarouselPost(t *testing.T) {
	payload := userPayload(`,
		"edge_owner_to_timeline_media": {
			"count": 1,
			"edges": [
				{"node": {
					"id": "p1",
					"display_url": "https://cdn.example/cover.jpg",
					"edge_sidecar_to_children": {
						"edges": [
							{"node": {"display_url": "https://cdn.example/c1.jpg"}},
							{"node": {"display_url": "https://cdn.example/c2.jpg"}},
							{"node": {"display_url": "https://cdn.example/c3.jpg"}}
						]
					}
				}}
			]
		}`)

	profile, err := decodeProfile(payload)
	require.NoError(t, err)
	require.Len(t, profile.Posts, 1)

	post := profile.Posts[0]
	assert.True(t, post.IsCarousel())
	assert.Equal(t, []string{
		"https://cdn.example/c1.jpg",
		"https://cdn.example/c2.jpg",
		"https://cdn.example/c3.jpg",
	}, post.ImageURLs)
}

func TestDecodeProfileDropsImagelessPosts(t *testing.T) {
	payload := userPayload(`,
		"edge_owner_to_timeline_media": {
			"count": 3,
			"edges": [
				{"node": {"id": "no-media"}},
				{"node": {"id": "empty-sidecar", "display_url": "https://cdn.example/x.jpg", "edge_sidecar_to_children": {"edges": []}}},
				{"node": {"id": "ok", "display_url": "https://cdn.example/ok.jpg"}}
			]
		}`)

	profile, err := decodeProfile(payload)
	require.NoError(t, err)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, "ok", profile.Posts[0].ID)
}

func TestDecodeProfileBrokenCaptionChainIsNil(t *testing.T) {
	payload := userPayload(`,
		"edge_owner_to_timeline_media": {
			"count": 2,
			"edges": [
				{"node": {"id": "p1", "display_url": "https://cdn.example/1.jpg", "edge_media_to_caption": {"edges": []}}},
				{"node": {"id": "p2", "display_url": "https://cdn.example/2.jpg", "edge_media_to_caption": {}}}
			]
		}`)

	profile, err := decodeProfile(payload)
	require.NoError(t, err)
	require.Len(t, profile.Posts, 2)
	assert.Nil(t, profile.Posts[0].Caption)
	assert.Nil(t, profile.Posts[1].Caption)
}

func TestDecodeProfileAbsentTimelineIsEmpty(t *testing.T) {
	profile, err := decodeProfile(userPayload(""))
	require.NoError(t, err)
	assert.Empty(t, profile.Posts)
}
