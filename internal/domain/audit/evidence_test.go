package audit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceStore_Add(t *testing.T) {
	s := NewEvidenceStore()
	var notified []FileDescriptor
	s.OnAdd = func(c Category, f FileDescriptor) {
		assert.Equal(t, CategoryInvoice, c)
		notified = append(notified, f)
	}

	batch := []FileDescriptor{{Name: "a.pdf", Size: 10}, {Name: "b.pdf", Size: 20}, {Name: "a.pdf", Size: 10}}
	added, err := s.Add(CategoryInvoice, batch)
	require.NoError(t, err)
	assert.Equal(t, []FileDescriptor{{Name: "a.pdf", Size: 10}, {Name: "b.pdf", Size: 20}}, added)
	assert.Equal(t, added, notified)
	assert.Equal(t, 2, s.CountOf(CategoryInvoice))

	// re-adding the same batch is a no-op
	added, err = s.Add(CategoryInvoice, batch)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 2, s.CountOf(CategoryInvoice))

	// same name, different size is a different file
	added, err = s.Add(CategoryInvoice, []FileDescriptor{{Name: "a.pdf", Size: 11}})
	require.NoError(t, err)
	assert.Len(t, added, 1)
	assert.Equal(t, 3, s.CountOf(CategoryInvoice))
}

func TestEvidenceStore_CategoriesAreIndependent(t *testing.T) {
	s := NewEvidenceStore()
	f := FileDescriptor{Name: "x.xml", Size: 1}
	_, err := s.Add(CategoryPrimaryLedger, []FileDescriptor{f})
	require.NoError(t, err)
	_, err = s.Add(CategoryBankStatement, []FileDescriptor{f})
	require.NoError(t, err)

	assert.Equal(t, 1, s.CountOf(CategoryPrimaryLedger))
	assert.Equal(t, 1, s.CountOf(CategoryBankStatement))
	assert.Equal(t, 0, s.CountOf(CategoryInvoice))
}

func TestEvidenceStore_EmptyAndUnknown(t *testing.T) {
	s := NewEvidenceStore()
	assert.False(t, s.HasAnyEvidence())

	added, err := s.Add(CategoryInvoice, nil)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.False(t, s.HasAnyEvidence())

	_, err = s.Add(Category("receipts"), []FileDescriptor{{Name: "a", Size: 1}})
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	_, _ = s.Add(CategoryThirdPartyDeclaration, []FileDescriptor{{Name: "dac7.xml", Size: 0}})
	assert.True(t, s.HasAnyEvidence())
}

func TestEvidenceStore_SnapshotIsACopy(t *testing.T) {
	s := NewEvidenceStore()
	_, _ = s.Add(CategoryInvoice, []FileDescriptor{{Name: "a.pdf", Size: 1}})

	snap := s.Snapshot()
	snap[CategoryInvoice][0].Name = "changed"
	files := s.Files(CategoryInvoice)
	files[0].Name = "changed too"

	assert.Equal(t, "a.pdf", s.Files(CategoryInvoice)[0].Name)
	assert.Len(t, snap, 4)
}

func TestEvidenceStore_Inventory(t *testing.T) {
	s := NewEvidenceStore()
	_, _ = s.Add(CategoryInvoice, []FileDescriptor{{Name: "i.pdf", Size: 1}})
	_, _ = s.Add(CategoryPrimaryLedger, []FileDescriptor{{Name: "s.xml", Size: 2}})

	inv := s.Inventory()
	require.Len(t, inv, 2)
	assert.Equal(t, "SAFT", inv[0].Tag)
	assert.Equal(t, "INVOICES", inv[1].Tag)
	assert.Equal(t, "verified", inv[1].Status)

	counts := s.Counts()
	assert.Equal(t, map[Category]int{
		CategoryPrimaryLedger:         1,
		CategoryBankStatement:         0,
		CategoryInvoice:               1,
		CategoryThirdPartyDeclaration: 0,
	}, counts)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"primary-ledger", CategoryPrimaryLedger},
		{"SAFT", CategoryPrimaryLedger},
		{"statements", CategoryBankStatement},
		{"invoices", CategoryInvoice},
		{" dac7 ", CategoryThirdPartyDeclaration},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseCategory(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}

	_, err := ParseCategory("receipts")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestParseProfileEnums(t *testing.T) {
	p, err := ParsePlatform("FreeNow")
	require.NoError(t, err)
	assert.Equal(t, PlatformFreeNow, p)
	_, err = ParsePlatform("lyft")
	assert.ErrorIs(t, err, ErrInvalidProfile)

	pe, err := ParsePeriod("q3")
	require.NoError(t, err)
	assert.Equal(t, PeriodQ3, pe)
	_, err = ParsePeriod("3s")
	assert.ErrorIs(t, err, ErrInvalidProfile)

	d := DefaultProfile()
	assert.Equal(t, PlatformBolt, d.Platform)
	assert.Equal(t, 2026, d.Year)
	assert.Equal(t, PeriodSecondHalf, d.Period)
}
