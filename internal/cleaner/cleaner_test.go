package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_Defaults(t *testing.T) {
	raw := `<div id="main" class="c" style="padding:1px">` +
		`<h1 class="h" style="color:blue">Welcome&nbsp;to&nbsp;Cleaner</h1>` +
		`<!-- note -->` +
		`<p data-x="1">This is <span style="color:red">styled</span> and <font color="green">font</font> text.</p>` +
		`<p></p>` +
		`<script>alert(1)</script>` +
		`<ul><li class="i">Item</li></ul>` +
		`<a href="/x" onclick="y()">link</a>` +
		`</div>`

	res, err := Clean(raw, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t,
		`<div><h1>Welcome to Cleaner</h1><p>This is styled and font text.</p><ul><li>Item</li></ul><a href="/x">link</a></div>`,
		res.HTML)
	assert.Equal(t, 2, res.Before.NBSP)
	assert.Zero(t, res.After.NBSP)
	assert.Equal(t, 100, res.After.Score)
	assert.Less(t, res.Before.Score, 100)
	assert.Positive(t, res.Reduction)
}

func TestClean_BrRuns(t *testing.T) {
	res, err := Clean(`<p>a<br><br><br><br>b</p>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `<p>a<br><br>b</p>`, res.HTML)

	opt := DefaultOptions()
	opt.RemoveBr = true
	res, err = Clean(`<p>a<br><br/>b</p>`, opt)
	require.NoError(t, err)
	assert.Equal(t, `<p>a b</p>`, res.HTML)
}

func TestClean_EmptyParentsRemoved(t *testing.T) {
	res, err := Clean(`<div><p> </p><span></span></div><p>kept</p>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `<p>kept</p>`, res.HTML)
}

func TestClean_EssentialAttrsKept(t *testing.T) {
	res, err := Clean(`<img src="a.png" alt="A" width="10" class="x">`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `<img src="a.png" alt="A"/>`, res.HTML)
}

func TestClean_ZeroOptionsKeepsMarkup(t *testing.T) {
	res, err := Clean(`<p class="x" data-k="v">a</p><!-- c -->`, Options{})
	require.NoError(t, err)
	assert.Equal(t, `<p class="x" data-k="v">a</p><!-- c -->`, res.HTML)
}

func TestClean_Beautify(t *testing.T) {
	opt := DefaultOptions()
	opt.Beautify = true

	res, err := Clean(`<div><p>Hi <b>there</b></p></div>`, opt)
	require.NoError(t, err)
	assert.Equal(t, "<div>\n  <p>\n    Hi\n    <b>\n      there\n    </b>\n  </p>\n</div>", res.HTML)
}

func TestClean_Empty(t *testing.T) {
	res, err := Clean("  ", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.HTML)
	assert.Zero(t, res.Reduction)
}

func TestBeautify_VoidTags(t *testing.T) {
	got := Beautify(`<div><br><img src="a"></div>`)
	assert.Equal(t, "<div>\n  <br>\n  <img src=\"a\">\n</div>", got)
}

func TestMeasure(t *testing.T) {
	st := Measure(`<p class="a">Hello&nbsp;world</p>`, DefaultOptions())
	assert.Equal(t, Stats{Chars: 33, Words: 1, NBSP: 1, Tags: 2, Score: 96}, st)

	assert.Equal(t, Stats{}, Measure("", DefaultOptions()))
}

func TestMeasure_EmptyTagPairs(t *testing.T) {
	st := Measure(`<p></p><div> </div><b></i>`, Options{RemoveEmptyTags: true})
	assert.Equal(t, 96, st.Score)

	// Disabled checks cost nothing.
	st = Measure(`<p></p><div> </div>`, Options{})
	assert.Equal(t, 100, st.Score)
}

func TestMeasure_PenaltyIsCapped(t *testing.T) {
	st := Measure(`<p class="a"></p><p class="b"></p><p class="c"></p><p class="d"></p><p class="e"></p><p class="f"></p>`,
		Options{RemoveClasses: true})
	assert.Equal(t, 90, st.Score)
}

func TestReductionPercent(t *testing.T) {
	assert.Equal(t, 75, ReductionPercent("aaaa", "a"))
	assert.Equal(t, 0, ReductionPercent("", ""))
}
