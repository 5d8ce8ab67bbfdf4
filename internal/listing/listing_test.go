package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/imagine/internal/model"
)

func makeUsers(n int) []model.User {
	users := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, model.User{
			ID:    fmt.Sprintf("u%d", i),
			Name:  fmt.Sprintf("User %d", i),
			Phone: fmt.Sprintf("9198765%05d", i),
		})
	}
	return users
}

func ids(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want model.UserType
	}{
		{raw: "qr", want: model.UserTypeQR},
		{raw: " QR ", want: model.UserTypeQR},
		{raw: "online", want: model.UserTypeOnline},
		{raw: "web", want: model.UserTypeOnline},
		{raw: "App", want: model.UserTypeOnline},
		{raw: "store", want: model.UserTypeUnknown},
		{raw: "", want: model.UserTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeType(tt.raw))
		})
	}
}

func TestFilter_EmptyQueryAllReturnsInputInOrder(t *testing.T) {
	users := makeUsers(5)
	users[2].UserType = "qr"
	users[3].UserType = "garbage"

	got := Filter(users, "", FilterAll)
	assert.Equal(t, users, got)
}

func TestFilter_QueryMatchesNameOrPhone(t *testing.T) {
	users := []model.User{
		{ID: "a", Name: "Asha Rao", Phone: "919000000001"},
		{ID: "b", Name: "Vikram", Phone: "919000000002"},
		{ID: "c", Name: "RAOUL", Phone: "919111111111"},
	}

	assert.Equal(t, []string{"a", "c"}, ids(Filter(users, "rao", FilterAll)))
	assert.Equal(t, []string{"b"}, ids(Filter(users, " 0002 ", FilterAll)))
	assert.Empty(t, Filter(users, "zzz", FilterAll))
}

func TestFilter_TypeFilter(t *testing.T) {
	users := []model.User{
		{ID: "web", UserType: "web"},
		{ID: "qr", UserType: "qr"},
		{ID: "none", UserType: "kiosk"},
	}

	assert.Equal(t, []string{"qr"}, ids(Filter(users, "", FilterQR)))
	assert.Equal(t, []string{"web"}, ids(Filter(users, "", FilterOnline)))
	assert.Equal(t, []string{"web", "qr", "none"}, ids(Filter(users, "", FilterAll)))
}

func TestParseTypeFilter(t *testing.T) {
	tf, ok := ParseTypeFilter("")
	assert.True(t, ok)
	assert.Equal(t, FilterAll, tf)

	tf, ok = ParseTypeFilter("online")
	assert.True(t, ok)
	assert.Equal(t, FilterOnline, tf)

	_, ok = ParseTypeFilter("web")
	assert.False(t, ok)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(41, 20))
	assert.Equal(t, 1, TotalPages(5, 0))
}

func TestPaginate(t *testing.T) {
	users := makeUsers(25)

	p := Paginate(users, 2, 10)
	assert.Equal(t, ids(users[10:20]), ids(p.Items))
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 11, p.From)
	assert.Equal(t, 20, p.To)

	last := Paginate(users, 3, 10)
	assert.Len(t, last.Items, 5)
	assert.Equal(t, 21, last.From)
	assert.Equal(t, 25, last.To)
}

func TestPaginate_Idempotent(t *testing.T) {
	users := makeUsers(33)

	first := Paginate(users, 2, 10)
	second := Paginate(users, 2, 10)
	assert.Equal(t, first, second)
}

func TestPaginate_ClampsAndDefaults(t *testing.T) {
	users := makeUsers(5)

	p := Paginate(users, 9, 10)
	assert.Equal(t, 1, p.Number)
	assert.Len(t, p.Items, 5)

	p = Paginate(users, -1, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, DashboardPageSize, p.Size)

	empty := Paginate(nil, 1, 10)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 0, empty.From)
	assert.Equal(t, 0, empty.To)
}

func TestView_ResetsPageOnChange(t *testing.T) {
	v := NewView(10)
	v.SetUsers(makeUsers(45), time.Now())

	snap := v.Apply(Query{Page: 4})
	require.Equal(t, 4, snap.Page.Number)

	snap = v.Apply(Query{})
	assert.Equal(t, 4, snap.Page.Number, "page is kept when nothing changes")

	snap = v.Apply(Query{Text: "User 1", Page: 3})
	assert.Equal(t, 1, snap.Page.Number, "query change resets page")

	snap = v.Apply(Query{Text: "User 1", Page: 2})
	assert.Equal(t, 2, snap.Page.Number)

	snap = v.Apply(Query{Text: "User 1", TypeFilter: FilterQR, Page: 2})
	assert.Equal(t, 1, snap.Page.Number, "type change resets page")

	v.Apply(Query{Page: 3})
	v.SetUsers(makeUsers(45), time.Now())
	snap = v.Apply(Query{})
	assert.Equal(t, 1, snap.Page.Number, "new list resets page")
}

func TestView_KeepsStaleListOnError(t *testing.T) {
	v := NewView(RewardsPageSize)
	v.SetUsers(makeUsers(3), time.Now())
	v.SetError("Failed to fetch users. Please try again.")

	snap := v.Apply(Query{})
	assert.True(t, snap.Loaded)
	assert.Len(t, snap.Filtered, 3)
	assert.Equal(t, "Failed to fetch users. Please try again.", snap.Error)

	v.SetUsers(makeUsers(1), time.Now())
	assert.Empty(t, v.Apply(Query{}).Error)
}

func TestView_UsersIgnoresFilter(t *testing.T) {
	v := NewView(RewardsPageSize)
	v.SetUsers(makeUsers(12), time.Now())

	snap := v.Apply(Query{Text: "User 12"})
	require.Len(t, snap.Filtered, 1)

	assert.Len(t, v.Users(), 12)
	assert.Empty(t, v.LastError())

	v.SetError("boom")
	assert.Equal(t, "boom", v.LastError())
}
