package glossary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGlossary(t *testing.T) (*Store, string) {
	t.Helper()
	return NewStore(), filepath.Join(t.TempDir(), "spec", "spec.en.ja.yml")
}

func strPtr(s string) *string { return &s }

func TestLoad_NotFound(t *testing.T) {
	store, path := newTestGlossary(t)

	_, err := store.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, path, nf.Path)
}

func TestAppend_CreatesGlossary(t *testing.T) {
	store, path := newTestGlossary(t)

	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト"}))

	terms, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, Term{SourceTerm: "spec", TargetTerm: "テスト", Note: ""}, terms[0])
}

func TestAppend_RoundTripLastElement(t *testing.T) {
	store, path := newTestGlossary(t)

	added := []Term{
		{SourceTerm: "spec", TargetTerm: "スペック", Note: "備考"},
		{SourceTerm: "user", TargetTerm: "ユーザ", Note: "備考"},
		{SourceTerm: "test", TargetTerm: "てすと1", Note: ""},
	}
	for _, term := range added {
		require.NoError(t, store.Append(path, term))

		terms, err := store.Load(path)
		require.NoError(t, err)
		assert.Equal(t, term, terms[len(terms)-1])
	}
}

func TestAppend_Duplicates(t *testing.T) {
	store, path := newTestGlossary(t)
	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "備考"}))

	// Same pair and note: rejected, store unchanged
	err := store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "備考"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateEntry))

	terms, err := store.Load(path)
	require.NoError(t, err)
	assert.Len(t, terms, 1)

	// Same pair, different note: note updated in place
	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "別の備考"}))
	terms, err = store.Load(path)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "別の備考", terms[0].Note)

	// Same source, different target: a second entry
	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "仕様"}))
	terms, err = store.Load(path)
	require.NoError(t, err)
	assert.Len(t, terms, 2)
}

func TestAppend_Normalizes(t *testing.T) {
	store, path := newTestGlossary(t)

	// "e" + combining acute accent is stored as the precomposed rune
	require.NoError(t, store.Append(path, Term{SourceTerm: "  cafe\u0301 ", TargetTerm: "カフェ"}))
	err := store.Append(path, Term{SourceTerm: "caf\u00e9", TargetTerm: "カフェ"})
	assert.True(t, errors.Is(err, ErrDuplicateEntry))

	terms, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", terms[0].SourceTerm)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name      string
		newTarget string
		note      *string
		wantErr   error
		want      Term
	}{
		{
			name:      "target only keeps note",
			newTarget: "スペック",
			want:      Term{SourceTerm: "spec", TargetTerm: "スペック", Note: "備考"},
		},
		{
			name:      "target and note",
			newTarget: "スペック",
			note:      strPtr("新しい備考"),
			want:      Term{SourceTerm: "spec", TargetTerm: "スペック", Note: "新しい備考"},
		},
		{
			name:      "same pair same note",
			newTarget: "テスト",
			note:      strPtr("備考"),
			wantErr:   ErrDuplicateEntry,
			want:      Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "備考"},
		},
		{
			name:      "same pair without note",
			newTarget: "テスト",
			wantErr:   ErrDuplicateEntry,
			want:      Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "備考"},
		},
		{
			name:      "same pair different note",
			newTarget: "テスト",
			note:      strPtr("備考だけ書き換え"),
			want:      Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "備考だけ書き換え"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestGlossary(t)
			require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト", Note: "備考"}))

			err := store.Update(path, "spec", "テスト", tt.newTarget, tt.note)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			terms, err := store.Load(path)
			require.NoError(t, err)
			require.Len(t, terms, 1)
			assert.Equal(t, tt.want, terms[0])
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	store, path := newTestGlossary(t)
	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト"}))

	err := store.Update(path, "spec", "仕様", "スペック", nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.Update(path, "user", "テスト", "スペック", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdate_CollidesWithOtherEntry(t *testing.T) {
	store, path := newTestGlossary(t)
	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "テスト"}))
	require.NoError(t, store.Append(path, Term{SourceTerm: "spec", TargetTerm: "仕様"}))

	err := store.Update(path, "spec", "テスト", "仕様", nil)
	assert.True(t, errors.Is(err, ErrDuplicateEntry))
}

func TestUpdate_Ambiguous(t *testing.T) {
	store, path := newTestGlossary(t)

	// Hand-edited file with the same pair twice
	content := `- source_term: spec
  target_term: テスト
  note: a
- source_term: spec
  target_term: テスト
  note: b
`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	err := store.Update(path, "spec", "テスト", "スペック", nil)
	var ambiguous *AmbiguousUpdateError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, 2, ambiguous.Matches)
}

func TestDelete(t *testing.T) {
	setup := func(t *testing.T) (*Store, string) {
		store, path := newTestGlossary(t)
		for _, term := range []Term{
			{SourceTerm: "spec", TargetTerm: "スペック", Note: "備考"},
			{SourceTerm: "user", TargetTerm: "ユーザ", Note: "備考"},
			{SourceTerm: "test", TargetTerm: "てすと1", Note: "備考"},
			{SourceTerm: "test", TargetTerm: "てすと2", Note: "備考"},
		} {
			require.NoError(t, store.Append(path, term))
		}
		return store, path
	}

	t.Run("with target", func(t *testing.T) {
		store, path := setup(t)
		n, err := store.Delete(path, "spec", strPtr("スペック"), false)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		terms, err := store.Load(path)
		require.NoError(t, err)
		assert.Len(t, terms, 3)
	})

	t.Run("with unknown target", func(t *testing.T) {
		store, path := setup(t)
		_, err := store.Delete(path, "spec", strPtr("仕様"), false)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("single match without target", func(t *testing.T) {
		store, path := setup(t)
		n, err := store.Delete(path, "user", nil, false)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("several matches without force", func(t *testing.T) {
		store, path := setup(t)
		_, err := store.Delete(path, "test", nil, false)
		assert.True(t, errors.Is(err, ErrAmbiguousDelete))

		terms, err := store.Load(path)
		require.NoError(t, err)
		assert.Len(t, terms, 4)
	})

	t.Run("several matches with force", func(t *testing.T) {
		store, path := setup(t)
		n, err := store.Delete(path, "test", nil, true)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		terms, err := store.Load(path)
		require.NoError(t, err)
		for _, term := range terms {
			assert.NotEqual(t, "test", term.SourceTerm)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		store, path := setup(t)
		_, err := store.Delete(path, "missing", nil, true)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestLoad_RejectsIncompleteRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"missing source", "- target_term: テスト\n  note: ''\n", "source_term"},
		{"missing target", "- source_term: spec\n", "target_term"},
		{"null target", "- source_term: spec\n  target_term:\n", "target_term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestGlossary(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := store.Load(path)
			var invalid *InvalidRecordError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	store, path := newTestGlossary(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("- source_term: a\n  target_term: b\n  colour: red\n"), 0644))

	_, err := store.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingNoteDefaultsToEmpty(t *testing.T) {
	store, path := newTestGlossary(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("- source_term: a\n  target_term: b\n"), 0644))

	terms, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "", terms[0].Note)
}

func TestSave_EmptyFile(t *testing.T) {
	store, path := newTestGlossary(t)
	require.NoError(t, store.Save(path, nil))

	terms, err := store.Load(path)
	require.NoError(t, err)
	assert.Empty(t, terms)
}
