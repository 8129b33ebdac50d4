package custom

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/gateways/dom"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

const page = `<html><body>
<div id="sidebar"><a id="side" class="sidebar-section-link tag" data-tag="go" href="/tag/go">go</a></div>
<a id="ext" href="https://other.example/docs?x=1#top">docs</a>
</body></html>`

func newCompiler(t *testing.T) *Compiler {
	t.Helper()
	cls, err := classify.NewClassifier(8)
	require.NoError(t, err)
	c, err := NewCompiler(cls)
	require.NoError(t, err)
	return c
}

func linkCtx(t *testing.T, current, id string) domain.LinkContext {
	t.Helper()
	cur, err := url.Parse(current)
	require.NoError(t, err)
	doc, err := dom.ParseString(page, cur)
	require.NoError(t, err)
	el := doc.Query("#" + id)
	require.NotNil(t, el)
	href, _ := el.Attr("href")
	target, err := cur.Parse(href)
	require.NoError(t, err)
	return domain.LinkContext{Anchor: el, CurrentURL: cur, TargetURL: target}
}

func TestCompile_Match(t *testing.T) {
	c := newCompiler(t)
	tests := []struct {
		name    string
		expr    string
		current string
		id      string
		want    bool
	}{
		{"sidebar tag", `anchor.in_sidebar && "tag" in anchor.classes`, "https://forum.example/latest", "side", true},
		{"attribute", `anchor.attrs["data-tag"] == "go"`, "https://forum.example/latest", "side", true},
		{"external host", `!target.same_origin && target.kind == "external" && target.host == "other.example"`, "https://forum.example/t/a/5", "ext", true},
		{"query and fragment", `target.query == "x=1" && target.fragment == "top"`, "https://forum.example/", "ext", true},
		{"current topic id", `current.kind == "topic" && current.topic_id == 5`, "https://forum.example/t/a/5", "ext", true},
		{"topic zero is present", `current.has_topic && current.topic_id == 0`, "https://forum.example/t/a/0", "ext", true},
		{"no match", `anchor.in_header`, "https://forum.example/", "side", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := c.Compile(Definition{ID: "custom:x", Match: tt.expr, EnabledAction: "new_tab", DisabledAction: "keep_native"})
			require.NoError(t, err)
			assert.Equal(t, "custom:x", rule.Name)
			res, err := rule.Match(linkCtx(t, tt.current, tt.id))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res != nil)
		})
	}
}

func TestCompile_Rejects(t *testing.T) {
	c := newCompiler(t)
	tests := []struct {
		name    string
		def     Definition
		wantErr error
	}{
		{"syntax", Definition{ID: "a", Match: "target.path ==", EnabledAction: "new_tab", DisabledAction: "keep_native"}, ErrInvalidExpression},
		{"non-bool", Definition{ID: "a", Match: `"text"`, EnabledAction: "new_tab", DisabledAction: "keep_native"}, ErrInvalidExpression},
		{"unknown variable", Definition{ID: "a", Match: "page.x", EnabledAction: "new_tab", DisabledAction: "keep_native"}, ErrInvalidExpression},
		{"empty id", Definition{ID: "", Match: "true", EnabledAction: "new_tab", DisabledAction: "keep_native"}, domain.ErrInvalidRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.def)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err)
		})
	}

	_, err := c.Compile(Definition{ID: "a", Match: "true", EnabledAction: "open", DisabledAction: "keep_native"})
	assert.Error(t, err)
}

func TestCompile_RuntimeErrors(t *testing.T) {
	c := newCompiler(t)
	rule, err := c.Compile(Definition{ID: "a", Match: `anchor.attrs["missing"] == "x"`, EnabledAction: "new_tab", DisabledAction: "keep_native"})
	require.NoError(t, err)
	res, err := rule.Match(linkCtx(t, "https://forum.example/", "side"))
	assert.Error(t, err)
	assert.Nil(t, res)

	rule, err = c.Compile(Definition{ID: "b", Match: `target.username`, EnabledAction: "new_tab", DisabledAction: "keep_native"})
	require.NoError(t, err)
	_, err = rule.Match(linkCtx(t, "https://forum.example/", "side"))
	assert.ErrorIs(t, err, ErrNotBool)

	res, err = rule.Match(domain.LinkContext{})
	assert.ErrorIs(t, err, ErrNotBool)
	assert.Nil(t, res)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", `rules:
  - id: custom:tags
    name: Tag links in the sidebar
    match: 'anchor.in_sidebar && target.path.startsWith("/tag/")'
    enabled_action: new_tab
    disabled_action: keep_native
`)
	writeFile(t, dir, "b.json", `{"rules": [{"id": "custom:external", "match": "!target.same_origin", "enabled_action": "keep_native", "disabled_action": "new_tab"}]}`)
	writeFile(t, dir, "c.toml", `[[rules]]
id = "custom:tags"
match = "target.kind == \"search\""
enabled_action = "new_tab"
disabled_action = "keep_native"
`)
	writeFile(t, dir, "notes.txt", "ignored")

	c := newCompiler(t)
	loaded, err := LoadDirectory(dir, c, rules.BuiltinIDs())
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, []string{"custom:tags", "custom:external"}, rules.IDs(loaded))
	assert.Equal(t, "Tag links in the sidebar", loaded[0].Name)
	assert.Equal(t, domain.ActionKeepNative, loaded[1].EnabledAction)

	res, err := loaded[0].Match(linkCtx(t, "https://forum.example/latest", "side"))
	require.NoError(t, err)
	assert.NotNil(t, res)

	all := rules.All(loaded...)
	require.NoError(t, rules.Validate(all))
	assert.Equal(t, rules.AttachmentKeepNative, all[len(all)-1].ID)
}

func TestLoadDirectory_Errors(t *testing.T) {
	c := newCompiler(t)
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr error
	}{
		{"reserved id", "r.yaml", "rules:\n  - id: topic:open-new-tab\n    match: 'true'\n    enabled_action: new_tab\n    disabled_action: keep_native\n", ErrReservedID},
		{"default id", "d.yaml", "rules:\n  - id: default\n    match: 'true'\n    enabled_action: new_tab\n    disabled_action: keep_native\n", ErrReservedID},
		{"bad expression", "e.yaml", "rules:\n  - id: custom:x\n    match: '1 +'\n    enabled_action: new_tab\n    disabled_action: keep_native\n", ErrInvalidExpression},
		{"missing rules", "m.yaml", "other: 1\n", nil},
		{"malformed", "bad.json", "{", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.body)
			_, err := LoadDirectory(dir, c, rules.BuiltinIDs())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	_, err := LoadDirectory(filepath.Join(t.TempDir(), "missing"), c, nil)
	assert.Error(t, err)
}
