package recovery_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/forge"
	forgejson "github.com/fwojciec/forge/json"
	"github.com/fwojciec/forge/recovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Recover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantStage string
		wantText  string
		wantDiags []string
	}{
		{
			name:      "fenced valid json needs no repair",
			raw:       "```json\n{\"projectTitle\":\"X\",\"files\":{}}\n```",
			wantStage: recovery.StageExtract,
			wantText:  `{"projectTitle":"X","files":{}}`,
		},
		{
			name:      "prose around object",
			raw:       "Here is your project:\n{\"a\": [1, 2]}\nLet me know!",
			wantStage: recovery.StageExtract,
			wantText:  `{"a": [1, 2]}`,
		},
		{
			name:      "missing closing brace",
			raw:       `{"files": {"/a.txt": {"code": "hi"}}`,
			wantStage: recovery.StageRepair,
			wantText:  `{"files": {"/a.txt": {"code": "hi"}}}`,
			wantDiags: []string{recovery.StageExtract},
		},
		{
			name:      "raw newline in string",
			raw:       "{\"code\": \"a\nb\"}",
			wantStage: recovery.StageSanitize,
			wantText:  `{"code": "a\nb"}`,
			wantDiags: []string{recovery.StageExtract, recovery.StageRepair},
		},
		{
			name:      "bare key",
			raw:       `{name: "x"}`,
			wantStage: recovery.StageAggressive,
			wantText:  `{"name": "x"}`,
			wantDiags: []string{recovery.StageExtract, recovery.StageRepair, recovery.StageSanitize},
		},
		{
			name:      "truncated after comma",
			raw:       `{"a": 1, "b": [1, 2,`,
			wantStage: recovery.StageAggressive,
			wantText:  `{"a": 1, "b": [1, 2]}`,
			wantDiags: []string{recovery.StageExtract, recovery.StageRepair, recovery.StageSanitize},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := recovery.New().Recover(tt.raw, parseJSON)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStage, res.Stage)
			assert.Equal(t, tt.wantText, res.Text)
			var stages []string
			for _, d := range res.Diagnostics {
				stages = append(stages, d.Stage)
				assert.NotEmpty(t, d.Err)
			}
			assert.Equal(t, tt.wantDiags, stages)
		})
	}
}

func TestEngine_Recover_ValidTextPassesThrough(t *testing.T) {
	t.Parallel()
	raw := `{"projectTitle": "T", "files": {"/a.js": {"code": "x"}}, "generatedFiles": ["/a.js"]}`
	assert.Equal(t, raw, recovery.StripFences(raw))
	res, err := recovery.New().Recover(raw, parseJSON)
	require.NoError(t, err)
	assert.Equal(t, recovery.StageExtract, res.Stage)
	assert.Equal(t, raw, res.Text)
	assert.Empty(t, res.Diagnostics)
}

func TestEngine_Recover_NoSpan(t *testing.T) {
	t.Parallel()
	_, err := recovery.New().Recover("I'm sorry, I cannot help with that.", parseJSON)

	var re *forge.RecoveryError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, forge.ErrRecoveryExhausted)
	require.Len(t, re.Diagnostics, 1)
	assert.Equal(t, recovery.StageExtract, re.Diagnostics[0].Stage)
	assert.Equal(t, "I'm sorry, I cannot help with that.", re.RawPrefix)
}

func TestEngine_Recover_Exhausted(t *testing.T) {
	t.Parallel()
	raw := `{"a": } and a long tail of prose that should not appear in full`
	_, err := recovery.New(recovery.WithPrefixLen(10)).Recover(raw, parseJSON)

	var re *forge.RecoveryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, raw[:10], re.RawPrefix)
	var stages []string
	for _, d := range re.Diagnostics {
		stages = append(stages, d.Stage)
		assert.LessOrEqual(t, len(d.Prefix), 10)
	}
	assert.Equal(t, []string{recovery.StageExtract, recovery.StageRepair, recovery.StageSanitize, recovery.StageAggressive}, stages)
}

func TestEngine_Recover_PrefixCutAtRuneBoundary(t *testing.T) {
	t.Parallel()
	_, err := recovery.New(recovery.WithPrefixLen(2)).Recover("héllo", parseJSON)
	var re *forge.RecoveryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "h", re.RawPrefix)
}

func TestEngine_Recover_LogsStageFailures(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := recovery.New(recovery.WithLogger(logger)).Recover(`{"a": 1`, parseJSON)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "stage=extract")
}

func TestEngine_Recover_StopsAtFirstParse(t *testing.T) {
	t.Parallel()
	var seen []string
	parse := func(s string) error {
		seen = append(seen, s)
		if len(seen) < 2 {
			return errors.New("not yet")
		}
		return nil
	}
	res, err := recovery.New().Recover(`{"a": 1`, parse)
	require.NoError(t, err)
	assert.Equal(t, recovery.StageRepair, res.Stage)
	assert.Equal(t, []string{`{"a": 1`, `{"a": 1}`}, seen)
}

func TestDocumentParser_ParseDocument(t *testing.T) {
	t.Parallel()
	p := recovery.NewDocumentParser(recovery.New(), forgejson.DecodeDocument)

	t.Run("repairs truncated document", func(t *testing.T) {
		t.Parallel()
		doc, rec, err := p.ParseDocument(`{"files": {"/a.txt": {"code": "hi"}}`)
		require.NoError(t, err)
		assert.Equal(t, recovery.StageRepair, rec.Stage)
		f, ok := doc.File("/a.txt")
		require.True(t, ok)
		assert.Equal(t, "hi", f.Code)
	})

	t.Run("fenced document", func(t *testing.T) {
		t.Parallel()
		doc, rec, err := p.ParseDocument("```json\n{\"projectTitle\":\"X\",\"files\":{}}\n```")
		require.NoError(t, err)
		assert.Equal(t, recovery.StageExtract, rec.Stage)
		assert.Equal(t, "X", doc.ProjectTitle)
		assert.Empty(t, doc.Files)
		assert.Empty(t, doc.GeneratedFiles)
	})

	t.Run("array is not a document", func(t *testing.T) {
		t.Parallel()
		_, _, err := p.ParseDocument(`[1, 2, 3]`)
		var re *forge.RecoveryError
		require.ErrorAs(t, err, &re)
		assert.Len(t, re.Diagnostics, 4)
		assert.True(t, strings.HasPrefix(re.Error(), "recovery exhausted after 4 stages"))
	})
}
