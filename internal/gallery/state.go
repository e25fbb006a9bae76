package gallery

// Selection is the image shown in the full-screen overlay together with its
// position in the full, unpaginated list.
type Selection struct {
	Image Image `json:"image"`
	Index int   `json:"index"`
}

// Item is one image on the visible page.
type Item struct {
	Image
	Index int `json:"index"`
}

// State is a single view over the gallery: the current page and the
// optional selection. A State is not safe for concurrent use; build one per
// request.
type State struct {
	images      []Image
	loading     bool
	currentPage int
	selected    *Selection
}

// NewState builds a view over images positioned on page 1. The images slice
// is shared, never modified.
func NewState(images []Image, loading bool) *State {
	return &State{
		images:      images,
		loading:     loading,
		currentPage: 1,
	}
}

// Loading reports whether the images were still being fetched when the
// state was taken.
func (s *State) Loading() bool {
	return s.loading
}

// Count returns the total number of images.
func (s *State) Count() int {
	return len(s.images)
}

// TotalPages is max(1, ceil(count / PageSize)).
func (s *State) TotalPages() int {
	pages := (len(s.images) + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// CurrentPage returns the 1-based page number.
func (s *State) CurrentPage() int {
	return s.currentPage
}

// HasPrev reports whether there is a page before the current one.
func (s *State) HasPrev() bool {
	return s.currentPage > 1
}

// HasNext reports whether there is a page after the current one.
func (s *State) HasNext() bool {
	return s.currentPage < s.TotalPages()
}

// GoToPage moves to page n, clamped to [1, TotalPages].
func (s *State) GoToPage(n int) {
	s.currentPage = clamp(n, 1, s.TotalPages())
}

// VisibleSlice returns the images on the current page.
func (s *State) VisibleSlice() []Item {
	start, end := s.bounds()
	items := make([]Item, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, Item{Image: s.images[i], Index: i})
	}
	return items
}

// Select opens the overlay on the image at position within the current
// page. It returns false and changes nothing if the position is not on
// the page.
func (s *State) Select(position int) bool {
	start, end := s.bounds()
	if position < 0 || position >= end-start {
		return false
	}
	index := start + position
	s.selected = &Selection{Image: s.images[index], Index: index}
	return true
}

// Open moves to the page holding the image at the absolute index and
// selects it. An index outside the list clears the selection instead.
func (s *State) Open(index int) bool {
	if index < 0 || index >= len(s.images) {
		s.Dismiss()
		return false
	}
	s.GoToPage(index/PageSize + 1)
	return s.Select(index % PageSize)
}

// Dismiss closes the overlay.
func (s *State) Dismiss() {
	s.selected = nil
}

// Selected returns the current selection, if any.
func (s *State) Selected() (Selection, bool) {
	if s.selected == nil {
		return Selection{}, false
	}
	return *s.selected, true
}

// bounds returns the half-open range of the current page in the full list.
func (s *State) bounds() (int, int) {
	start := (s.currentPage - 1) * PageSize
	if start > len(s.images) {
		start = len(s.images)
	}
	end := start + PageSize
	if end > len(s.images) {
		end = len(s.images)
	}
	return start, end
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
