package preferences

// ItemsPerPage is how many items a section shows before "load more".
const ItemsPerPage = 5

// SectionView is the view-state of one collection section: which item is
// being edited and how many items are visible. It is passed by value;
// every transition returns the next state.
type SectionView struct {
	EditingID string `json:"editing_id,omitempty"`
	Visible   int    `json:"visible"`
}

func NewSectionView() SectionView {
	return SectionView{Visible: ItemsPerPage}
}

func (v SectionView) StartEdit(id string) SectionView {
	v.EditingID = id
	return v
}

func (v SectionView) CancelEdit() SectionView {
	v.EditingID = ""
	return v
}

func (v SectionView) IsEditing(id string) bool {
	return v.EditingID != "" && v.EditingID == id
}

// LoadMore reveals the next page, capped at total.
func (v SectionView) LoadMore(total int) SectionView {
	v.Visible += ItemsPerPage
	if v.Visible > total {
		v.Visible = max(total, ItemsPerPage)
	}
	return v
}

// Window returns how many of total items are shown and whether more remain.
func (v SectionView) Window(total int) (shown int, hasMore bool) {
	visible := v.Visible
	if visible <= 0 {
		visible = ItemsPerPage
	}
	shown = min(visible, total)
	return shown, total > shown
}
