package listing

import (
	"sync"
	"time"

	"github.com/mmeshcher/imagine/internal/model"
)

// Query: параметры, которые клиент передаёт при просмотре списка.
// Page и PageSize, равные нулю, оставляют текущие значения.
type Query struct {
	Text       string
	TypeFilter TypeFilter
	Page       int
	PageSize   int
}

// Snapshot: согласованный срез состояния представления.
type Snapshot struct {
	Filtered  []model.User
	Page      Page
	Loaded    bool
	FetchedAt time.Time
	Error     string
}

// View хранит состояние одного экрана администратора: загруженный список, строку поиска,
// фильтр типа и текущую страницу. Смена поиска, фильтра или списка сбрасывает страницу на первую.
type View struct {
	mu sync.Mutex

	users     []model.User
	loaded    bool
	fetchedAt time.Time
	lastErr   string

	text       string
	typeFilter TypeFilter
	page       int
	pageSize   int
}

// NewView создаёт пустое представление с размером страницы pageSize.
func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DashboardPageSize
	}
	return &View{
		typeFilter: FilterAll,
		page:       1,
		pageSize:   pageSize,
	}
}

// Loaded сообщает, был ли список хотя бы раз успешно загружен.
func (v *View) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// SetUsers заменяет список целиком и сбрасывает страницу.
func (v *View) SetUsers(users []model.User, at time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.users = users
	v.loaded = true
	v.fetchedAt = at
	v.lastErr = ""
	v.page = 1
}

// Users возвращает весь загруженный список без фильтрации.
func (v *View) Users() []model.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.users
}

// LastError возвращает сообщение об ошибке последней загрузки.
func (v *View) LastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// SetError запоминает ошибку последней загрузки, прежний список остаётся видимым.
func (v *View) SetError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastErr = msg
}

// Apply применяет параметры запроса и возвращает текущий срез.
func (v *View) Apply(q Query) Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	tf := q.TypeFilter
	if tf == "" {
		tf = FilterAll
	}

	changed := false
	if q.Text != v.text {
		v.text = q.Text
		changed = true
	}
	if tf != v.typeFilter {
		v.typeFilter = tf
		changed = true
	}
	if q.PageSize > 0 {
		v.pageSize = q.PageSize
	}

	switch {
	case changed:
		v.page = 1
	case q.Page > 0:
		v.page = q.Page
	}

	filtered := Filter(v.users, v.text, v.typeFilter)
	page := Paginate(filtered, v.page, v.pageSize)
	v.page = page.Number

	return Snapshot{
		Filtered:  filtered,
		Page:      page,
		Loaded:    v.loaded,
		FetchedAt: v.fetchedAt,
		Error:     v.lastErr,
	}
}
