package uires_test

import (
	"strings"
	"testing"

	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
	"github.com/sebamar88/mcp-ui-poc/internal/uires"
)

func testDetails() placeholder.PostDetails {
	return placeholder.PostDetails{
		Post: placeholder.Post{
			ID:     42,
			UserID: 1,
			Title:  "sunt aut facere",
			Body:   "quia et suscipit\nsuscipit recusandae",
		},
		User: placeholder.User{
			ID:       1,
			Name:     "Leanne Graham",
			Username: "Bret",
			Email:    "Sincere@april.biz",
			Company:  &placeholder.Company{Name: "Romaguera-Crona"},
		},
		Comments: []placeholder.Comment{
			{ID: 1, PostID: 42, Name: "first", Email: "first@example.com", Body: "laudantium enim"},
			{ID: 2, PostID: 42, Name: "second", Email: "second@example.com", Body: "est natus enim"},
			{ID: 3, PostID: 42, Name: "third", Email: "hidden-third@example.com", Body: "truncated away"},
			{ID: 4, PostID: 42, Name: "fourth", Email: "hidden-fourth@example.com", Body: "also truncated"},
		},
	}
}

func TestEscapeHTML(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"ampersand", "a & b", "a &amp; b"},
		{"angle brackets", "<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"double quote", `say "hi"`, "say &quot;hi&quot;"},
		{"single quote", "it's", "it&#39;s"},
		{"backtick", "a `tick`", "a &#96;tick&#96;"},
		{"mixed", `Tom & Jerry's <show>`, "Tom &amp; Jerry&#39;s &lt;show&gt;"},
		{"clean", "nothing to do", "nothing to do"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uires.EscapeHTML(tc.input); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBuildSummaryEscapesUserText(t *testing.T) {
	details := testDetails()
	details.Post.Title = `<img src=x onerror=alert(1)> & "quotes"`
	details.Post.Body = "first 'paragraph'\n\n<script>steal()</script>"
	details.User.Name = "Mallory <script>"
	details.Comments[0].Body = "nasty `comment` <iframe>"

	text := uires.BuildSummary(details).Resource.Text

	for _, raw := range []string{
		"<img src=x onerror=alert(1)>",
		"<script>steal()</script>",
		"Mallory <script>",
		"<iframe>",
	} {
		if strings.Contains(text, raw) {
			t.Errorf("unescaped input leaked into output: %q", raw)
		}
	}
	for _, escaped := range []string{
		"&lt;img src=x onerror=alert(1)&gt; &amp; &quot;quotes&quot;",
		"first &#39;paragraph&#39;",
		"&lt;script&gt;steal()&lt;/script&gt;",
		"nasty &#96;comment&#96; &lt;iframe&gt;",
	} {
		if !strings.Contains(text, escaped) {
			t.Errorf("expected escaped sequence %q in output", escaped)
		}
	}
}

func TestBuildSummaryCommentCap(t *testing.T) {
	details := testDetails()
	res := uires.BuildSummary(details)
	text := res.Resource.Text

	if !strings.Contains(text, "first@example.com") {
		t.Error("expected first comment email in output")
	}
	if !strings.Contains(text, "second@example.com") {
		t.Error("expected second comment email in output")
	}
	if strings.Contains(text, "hidden-third@example.com") {
		t.Error("third comment must not appear anywhere in output")
	}
	if strings.Contains(text, "hidden-fourth@example.com") {
		t.Error("fourth comment must not appear anywhere in output")
	}
	if strings.Contains(text, "truncated away") {
		t.Error("truncated comment body must not appear in output")
	}
}

func TestBuildSummaryParagraphs(t *testing.T) {
	details := testDetails()
	details.Post.Body = "uno\n\ndos\n   \ntres\n"

	text := uires.BuildSummary(details).Resource.Text

	for _, p := range []string{"<p>uno</p>", "<p>dos</p>", "<p>tres</p>"} {
		if !strings.Contains(text, p) {
			t.Errorf("expected paragraph %q in output", p)
		}
	}
	if strings.Contains(text, "<p></p>") {
		t.Error("empty paragraphs must be dropped")
	}
}

func TestBuildSummaryNoComments(t *testing.T) {
	details := testDetails()
	details.Comments = nil

	text := uires.BuildSummary(details).Resource.Text
	if !strings.Contains(text, "No hay comentarios disponibles") {
		t.Error("expected empty-comments fallback paragraph")
	}
}

func TestSummaryAddressingIsDeterministic(t *testing.T) {
	details := testDetails()

	first := uires.BuildSummary(details)
	second := uires.BuildSummary(details)

	if first.Resource.URI != second.Resource.URI {
		t.Errorf("summary URI not deterministic: %s vs %s", first.Resource.URI, second.Resource.URI)
	}
	if first.Resource.URI != "urn:post:42:summary" {
		t.Errorf("unexpected summary URI: %s", first.Resource.URI)
	}
	if first.Resource.MimeType != uires.MimeHTML {
		t.Errorf("unexpected summary MIME type: %s", first.Resource.MimeType)
	}

	remote := uires.BuildRemoteDom(details)
	if remote.Resource.URI == first.Resource.URI {
		t.Error("remote-dom URI must differ from summary URI for the same post")
	}
}

func TestBuildRemoteDom(t *testing.T) {
	details := testDetails()
	res := uires.BuildRemoteDom(details)

	if res.Type != "resource" {
		t.Errorf("unexpected resource type: %s", res.Type)
	}
	if res.Resource.MimeType != uires.MimeRemoteDom {
		t.Errorf("unexpected remote-dom MIME type: %s", res.Resource.MimeType)
	}

	text := res.Resource.Text

	// Embedded payload carries the author profile.
	for _, want := range []string{
		`"postId":42`,
		`"author":"Leanne Graham"`,
		`"company":"Romaguera-Crona"`,
		`"username":"Bret"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected payload fragment %q in script", want)
		}
	}

	// Both outbound action shapes are wire contract.
	for _, want := range []string{
		"type: 'notify'",
		"type: 'tool'",
		"toolName: 'loadExtendedProfile'",
		"params: { postId: data.postId, username: data.username }",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected action fragment %q in script", want)
		}
	}
}

func TestBuildRemoteDomCompanyFallback(t *testing.T) {
	details := testDetails()
	details.User.Company = nil

	text := uires.BuildRemoteDom(details).Resource.Text
	if !strings.Contains(text, `"company":"Sin compañía"`) {
		t.Error("expected company fallback in payload")
	}
}

func TestBuildListing(t *testing.T) {
	long := strings.Repeat("palabra ", 40)
	listing := []placeholder.PostDetails{
		{
			Post:     placeholder.Post{ID: 1, Title: "first <b>post</b>", Body: long},
			User:     placeholder.User{Name: "Ana & Co", Email: "ana@example.com"},
			Comments: []placeholder.Comment{{ID: 1}, {ID: 2}, {ID: 3}},
		},
		{
			Post: placeholder.Post{ID: 2, Title: "short", Body: "tiny body"},
			User: placeholder.User{Name: "Beto", Email: "beto@example.com"},
		},
	}

	res := uires.BuildListing(listing)
	text := res.Resource.Text

	if res.Resource.URI != uires.ListURI {
		t.Errorf("unexpected listing URI: %s", res.Resource.URI)
	}
	if strings.Contains(text, "first <b>post</b>") {
		t.Error("listing must escape titles")
	}
	if !strings.Contains(text, "first &lt;b&gt;post&lt;/b&gt;") {
		t.Error("expected escaped title in listing")
	}
	if !strings.Contains(text, "Ana &amp; Co") {
		t.Error("expected escaped author name in listing")
	}
	if strings.Contains(text, long) {
		t.Error("long bodies must be truncated in the listing")
	}
	if !strings.Contains(text, "...") {
		t.Error("expected ellipsis on truncated body")
	}
	if !strings.Contains(text, "tiny body") {
		t.Error("short bodies must appear untruncated")
	}
	if !strings.Contains(text, "3 comentarios") {
		t.Error("expected comment count in listing")
	}
	if !strings.Contains(text, "urn:post:1:summary") {
		t.Error("expected per-post summary URN in listing")
	}
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		raw  string
		want uires.Mode
	}{
		{"remote", uires.ModeRemote},
		{"REMOTE", uires.ModeRemote},
		{"html", uires.ModeHTML},
		{"", uires.ModeHTML},
		{"garbage", uires.ModeHTML},
	}
	for _, tc := range testCases {
		if got := uires.ParseMode(tc.raw); got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
