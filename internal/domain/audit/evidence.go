package audit

// EvidenceStore keeps uploaded descriptors per category in arrival order.
// It is not safe for concurrent use; the session controller serializes access.
type EvidenceStore struct {
	files map[Category][]FileDescriptor
	seen  map[Category]map[fileKey]struct{}

	// OnAdd is called once for every descriptor actually appended.
	OnAdd func(Category, FileDescriptor)
}

func NewEvidenceStore() *EvidenceStore {
	s := &EvidenceStore{
		files: make(map[Category][]FileDescriptor, 4),
		seen:  make(map[Category]map[fileKey]struct{}, 4),
	}
	for _, c := range Categories() {
		s.seen[c] = make(map[fileKey]struct{})
	}
	return s
}

// Add appends files not already present under the same (name, size) key and
// returns the ones that were appended. Duplicates are skipped silently.
func (s *EvidenceStore) Add(c Category, files []FileDescriptor) ([]FileDescriptor, error) {
	seen, ok := s.seen[c]
	if !ok {
		return nil, ErrUnknownCategory
	}
	var added []FileDescriptor
	for _, f := range files {
		k := f.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		s.files[c] = append(s.files[c], f)
		added = append(added, f)
		if s.OnAdd != nil {
			s.OnAdd(c, f)
		}
	}
	return added, nil
}

func (s *EvidenceStore) CountOf(c Category) int {
	return len(s.files[c])
}

func (s *EvidenceStore) HasAnyEvidence() bool {
	for _, fs := range s.files {
		if len(fs) > 0 {
			return true
		}
	}
	return false
}

// Files returns a copy of one category's descriptors.
func (s *EvidenceStore) Files(c Category) []FileDescriptor {
	fs := s.files[c]
	out := make([]FileDescriptor, len(fs))
	copy(out, fs)
	return out
}

// Counts returns the per-category counts, every category present.
func (s *EvidenceStore) Counts() map[Category]int {
	out := make(map[Category]int, 4)
	for _, c := range Categories() {
		out[c] = len(s.files[c])
	}
	return out
}

// EvidenceSnapshot is an immutable copy of the store contents.
type EvidenceSnapshot map[Category][]FileDescriptor

func (s *EvidenceStore) Snapshot() EvidenceSnapshot {
	out := make(EvidenceSnapshot, 4)
	for _, c := range Categories() {
		out[c] = s.Files(c)
	}
	return out
}

// InventoryItem is one row of the evidence listing.
type InventoryItem struct {
	Category Category       `json:"category"`
	Tag      string         `json:"tag"`
	File     FileDescriptor `json:"file"`
	Status   string         `json:"status"`
}

// Inventory flattens the store in category order, then arrival order.
func (s *EvidenceStore) Inventory() []InventoryItem {
	var out []InventoryItem
	for _, c := range Categories() {
		for _, f := range s.files[c] {
			out = append(out, InventoryItem{Category: c, Tag: c.Tag(), File: f, Status: "verified"})
		}
	}
	return out
}
