package menu

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModifierOptionValidation(t *testing.T) {
	_, err := NewModifierOption(uuid.Nil, "Pepperoni", "pep", decimal.Zero, 0, OptionMetadata{})
	assert.Error(t, err)

	_, err = NewModifierOption(uuid.New(), "", "pep", decimal.Zero, 0, OptionMetadata{})
	assert.Error(t, err)

	_, err = NewModifierOption(uuid.New(), "Pepperoni", "pep", decimal.NewFromInt(-1), 0, OptionMetadata{})
	assert.Error(t, err)

	mo, err := NewModifierOption(uuid.New(), "Pepperoni", "pep", decimal.NewFromFloat(2.5), 3, OptionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, 3, mo.Ordinal)
	assert.NotEmpty(t, mo.GetDomainEvents())
}

func TestModifierOptionUpdateRejectsNegativePrice(t *testing.T) {
	mo, err := NewModifierOption(uuid.New(), "Pepperoni", "pep", decimal.Zero, 0, OptionMetadata{})
	require.NoError(t, err)

	before := mo.Version
	err = mo.Update("Pepperoni", "pep", decimal.NewFromInt(-2), 0, OptionMetadata{})
	assert.Error(t, err)
	assert.Equal(t, before, mo.Version)

	require.NoError(t, mo.Update("Sausage", "sau", decimal.NewFromInt(3), 1, OptionMetadata{AllowHeavy: true}))
	assert.Equal(t, "Sausage", mo.DisplayName)
	assert.Equal(t, before+1, mo.Version)
}

func TestRequiredSpecifiers(t *testing.T) {
	tests := []struct {
		name     string
		metadata OptionMetadata
		want     []Specifier
	}{
		{
			name:     "base option",
			metadata: OptionMetadata{},
			want:     []Specifier{SpecifierModifierWhole},
		},
		{
			name:     "splittable",
			metadata: OptionMetadata{CanSplit: true},
			want:     []Specifier{SpecifierModifierWhole, SpecifierModifierLeft, SpecifierModifierRight},
		},
		{
			name:     "heavy and lite",
			metadata: OptionMetadata{AllowHeavy: true, AllowLite: true},
			want:     []Specifier{SpecifierModifierWhole, SpecifierModifierHeavy, SpecifierModifierLite},
		},
		{
			name:     "everything",
			metadata: OptionMetadata{CanSplit: true, AllowHeavy: true, AllowLite: true, AllowOTS: true},
			want: []Specifier{
				SpecifierModifierWhole, SpecifierModifierLeft, SpecifierModifierRight,
				SpecifierModifierHeavy, SpecifierModifierLite, SpecifierModifierOTS,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mo, err := NewModifierOption(uuid.New(), "Topping", "t", decimal.Zero, 0, tc.metadata)
			require.NoError(t, err)
			assert.Equal(t, tc.want, mo.RequiredSpecifiers())
		})
	}
}

func TestDisabledInterval(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("zero interval never disables", func(t *testing.T) {
		var d DisabledInterval
		assert.False(t, d.IsBlanket())
		assert.False(t, d.IsDisabledAt(now))
	})

	t.Run("start after end is a blanket disable", func(t *testing.T) {
		d := DisabledInterval{Start: now.Add(time.Hour), End: now}
		assert.True(t, d.IsBlanket())
		assert.True(t, d.IsDisabledAt(now))
		assert.True(t, d.IsDisabledAt(now.Add(100*time.Hour)))
	})

	t.Run("bounded interval covers inclusively", func(t *testing.T) {
		d := DisabledInterval{Start: now, End: now.Add(time.Hour)}
		assert.False(t, d.IsBlanket())
		assert.False(t, d.IsDisabledAt(now.Add(-time.Second)))
		assert.True(t, d.IsDisabledAt(now))
		assert.True(t, d.IsDisabledAt(now.Add(30*time.Minute)))
		assert.True(t, d.IsDisabledAt(now.Add(time.Hour)))
		assert.False(t, d.IsDisabledAt(now.Add(time.Hour+time.Second)))
	})
}

func TestCategoryLifecycle(t *testing.T) {
	_, err := NewCategory("", 0, nil)
	assert.Error(t, err)

	root, err := NewCategory("Pizza", 0, nil)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	child, err := NewCategory("Specialty", 1, &root.ID)
	require.NoError(t, err)
	assert.False(t, child.IsRoot())

	assert.Error(t, child.Rename(""))
	require.NoError(t, child.Rename("Signature"))
	assert.Equal(t, "Signature", child.Name)

	child.SetParent(nil)
	assert.True(t, child.IsRoot())
}
