package discovery

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lyricverse/internal/models"
)

var errStoreDown = errors.New("store unreachable")

// fakeContentStore serves content from a slice, optionally failing
type fakeContentStore struct {
	items []models.Content
	fail  bool
}

func (f *fakeContentStore) ByID(_ context.Context, id string) (*models.Content, error) {
	if f.fail {
		return nil, errStoreDown
	}
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			return &f.items[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeContentStore) ByIDs(_ context.Context, ids []string) ([]models.Content, error) {
	if f.fail {
		return nil, errStoreDown
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Content
	for _, c := range f.items {
		if want[c.ID.Hex()] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContentStore) All(_ context.Context) ([]models.Content, error) {
	if f.fail {
		return nil, errStoreDown
	}
	return append([]models.Content(nil), f.items...), nil
}

func (f *fakeContentStore) ByCreators(_ context.Context, creatorIDs []string) ([]models.Content, error) {
	if f.fail {
		return nil, errStoreDown
	}
	want := map[string]bool{}
	for _, id := range creatorIDs {
		want[id] = true
	}
	var out []models.Content
	for _, c := range f.items {
		if want[c.CreatorID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContentStore) Trending(_ context.Context, minScore float64, limit int) ([]models.Content, error) {
	if f.fail {
		return nil, errStoreDown
	}
	var out []models.Content
	for _, c := range f.items {
		if c.TrendingScore > minScore {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TrendingScore > out[j].TrendingScore })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeContentStore) MostPopular(_ context.Context, limit int) ([]models.Content, error) {
	if f.fail {
		return nil, errStoreDown
	}
	out := append([]models.Content(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PopularityScore > out[j].PopularityScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeContentStore) UpdateTrendingScore(_ context.Context, id string, score float64) error {
	if f.fail {
		return errStoreDown
	}
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			f.items[i].TrendingScore = score
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeContentStore) UpdatePopularityScore(_ context.Context, id string, score float64) error {
	if f.fail {
		return errStoreDown
	}
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			f.items[i].PopularityScore = score
			return nil
		}
	}
	return errors.New("not found")
}

// fakeInteractionStore serves interactions from a slice
type fakeInteractionStore struct {
	items []models.Interaction
	fail  bool
}

func (f *fakeInteractionStore) ByUser(_ context.Context, userID string) ([]models.Interaction, error) {
	if f.fail {
		return nil, errStoreDown
	}
	var out []models.Interaction
	for _, in := range f.items {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInteractionStore) ByContent(_ context.Context, contentID string) ([]models.Interaction, error) {
	if f.fail {
		return nil, errStoreDown
	}
	var out []models.Interaction
	for _, in := range f.items {
		if in.ContentID == contentID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInteractionStore) ByContentSince(_ context.Context, contentID string, since time.Time) ([]models.Interaction, error) {
	if f.fail {
		return nil, errStoreDown
	}
	var out []models.Interaction
	for _, in := range f.items {
		if in.ContentID == contentID && !in.CreatedAt.Before(since) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInteractionStore) ContentIDsSince(_ context.Context, since time.Time) ([]string, error) {
	if f.fail {
		return nil, errStoreDown
	}
	seen := map[string]bool{}
	var out []string
	for _, in := range f.items {
		if !in.CreatedAt.Before(since) && !seen[in.ContentID] {
			seen[in.ContentID] = true
			out = append(out, in.ContentID)
		}
	}
	return out, nil
}

func (f *fakeInteractionStore) UsersByContent(_ context.Context, contentIDs []string) (map[string][]string, error) {
	if f.fail {
		return nil, errStoreDown
	}
	want := map[string]bool{}
	for _, id := range contentIDs {
		want[id] = true
	}
	out := map[string][]string{}
	seen := map[string]map[string]bool{}
	for _, in := range f.items {
		if !want[in.ContentID] {
			continue
		}
		if seen[in.ContentID] == nil {
			seen[in.ContentID] = map[string]bool{}
		}
		if seen[in.ContentID][in.UserID] {
			continue
		}
		seen[in.ContentID][in.UserID] = true
		out[in.ContentID] = append(out[in.ContentID], in.UserID)
	}
	return out, nil
}

// fakeConnectionStore serves an adjacency map
type fakeConnectionStore struct {
	edges map[string][]string
	fail  bool
}

func (f *fakeConnectionStore) ConnectionsOf(_ context.Context, userID string) ([]string, error) {
	if f.fail {
		return nil, errStoreDown
	}
	return append([]string(nil), f.edges[userID]...), nil
}

// fakeUserStore serves users from a slice
type fakeUserStore struct {
	users []models.User
	fail  bool
}

func (f *fakeUserStore) ByID(_ context.Context, userID string) (*models.User, error) {
	if f.fail {
		return nil, errStoreDown
	}
	for i := range f.users {
		if f.users[i].UserID == userID {
			return &f.users[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserStore) ByIDs(_ context.Context, userIDs []string) ([]models.User, error) {
	if f.fail {
		return nil, errStoreDown
	}
	want := map[string]bool{}
	for _, id := range userIDs {
		want[id] = true
	}
	var out []models.User
	for _, u := range f.users {
		if want[u.UserID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ByInterestTags(_ context.Context, tags []string, excludeIDs []string, limit int) ([]models.User, error) {
	if f.fail {
		return nil, errStoreDown
	}
	excluded := map[string]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	want := map[string]bool{}
	for _, tag := range tags {
		want[tag] = true
	}
	var out []models.User
	for _, u := range f.users {
		if excluded[u.UserID] {
			continue
		}
		for _, tag := range u.InterestTags {
			if want[tag] {
				out = append(out, u)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserStore) Random(_ context.Context, limit int, excludeIDs []string) ([]models.User, error) {
	if f.fail {
		return nil, errStoreDown
	}
	excluded := map[string]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.User
	for _, u := range f.users {
		if excluded[u.UserID] {
			continue
		}
		out = append(out, u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func newContent(creatorID, title string, popularity, trending float64) models.Content {
	return models.Content{
		ID:              primitive.NewObjectID(),
		CreatorID:       creatorID,
		Title:           title,
		ContentType:     models.ContentTypeLyricSnippet,
		PopularityScore: popularity,
		TrendingScore:   trending,
		CreatedAt:       time.Now().Add(-48 * time.Hour),
	}
}
