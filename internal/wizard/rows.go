package wizard

// Collection names a dynamic row set edited by a step
type Collection string

const (
	CollectionWallets           Collection = "wallets"
	CollectionExchanges         Collection = "exchanges"
	CollectionBeneficiaries     Collection = "beneficiaries"
	CollectionEmergencyContacts Collection = "emergency_contacts"
)

// rowSet tracks the working rows of one collection. Each row has a
// surrogate key that stays stable across removals, so a field path
// never rebinds to a different row when an earlier row is deleted.
type rowSet struct {
	order []int
	next  int
}

func newRowSet() *rowSet {
	return &rowSet{next: 1}
}

// add appends a fresh row and returns its key
func (r *rowSet) add() int {
	key := r.next
	r.next++
	r.order = append(r.order, key)
	return key
}

// remove deletes the row with the given key, preserving the order of
// the remaining rows
func (r *rowSet) remove(key int) bool {
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return true
		}
	}
	return false
}

// keys returns the row keys in display order
func (r *rowSet) keys() []int {
	out := make([]int, len(r.order))
	copy(out, r.order)
	return out
}

// reset replaces the working set with n fresh rows and returns their
// keys. Used when hydrating from an existing draft.
func (r *rowSet) reset(n int) []int {
	r.order = r.order[:0]
	for i := 0; i < n; i++ {
		r.add()
	}
	return r.keys()
}
