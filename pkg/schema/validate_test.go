package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, doc string, opts ...Option) *Schema {
	t.Helper()
	s, err := Load(t.Context(), mustParse(t, doc), opts...)
	require.NoError(t, err)
	return s
}

func TestValidate_BoolCoercion(t *testing.T) {
	n := mustBuild(t, `<bool name="flag"/>`)

	tests := []struct {
		raw     any
		want    any
		wantErr bool
	}{
		{"true", true, false},
		{"True", true, false},
		{"TRUE", true, false},
		{"false", false, false},
		{true, true, false},
		{nil, nil, false},
		{"maybe", nil, true},
		{1, nil, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.raw), func(t *testing.T) {
			c := domain.Object{}
			_, err := n.Validate(t.Context(), domain.FieldKey("flag"), tt.raw, c)
			if tt.wantErr {
				var tce *TypeCoercionError
				assert.ErrorAs(t, err, &tce)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c["flag"])
		})
	}
}

func TestValidate_ScalarCoercion(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		raw     any
		want    any
		wantErr bool
	}{
		{"integer from string", `<integer name="v"/>`, " 42 ", int64(42), false},
		{"integer from json float", `<integer name="v"/>`, float64(3), int64(3), false},
		{"integer from json number", `<integer name="v"/>`, json.Number("7"), int64(7), false},
		{"integer from int", `<integer name="v"/>`, 5, int64(5), false},
		{"integer rejects fraction", `<integer name="v"/>`, 3.5, nil, true},
		{"integer rejects text", `<integer name="v"/>`, "x", nil, true},
		{"integer rejects bool", `<integer name="v"/>`, true, nil, true},
		{"float from string", `<float name="v"/>`, "2.5", 2.5, false},
		{"float from int", `<float name="v"/>`, int64(2), 2.0, false},
		{"float rejects text", `<float name="v"/>`, "abc", nil, true},
		{"string identity", `<string name="v"/>`, "hi", "hi", false},
		{"url identity", `<url name="v"/>`, 12, 12, false},
		{"nil passes", `<integer name="v"/>`, nil, nil, false},
		{"date default", `<date name="v"/>`, "2023-04-05", time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC), false},
		{"date custom", `<date name="v" date-format="%d/%m/%Y"/>`, "05/04/2023", time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC), false},
		{"date malformed", `<date name="v"/>`, "04/05/2023", nil, true},
		{"time default", `<time name="v"/>`, "13:04:05", time.Date(0, 1, 1, 13, 4, 5, 0, time.UTC), false},
		{"time custom", `<time name="v" time-format="%I:%M %p"/>`, "01:04 PM", time.Date(0, 1, 1, 13, 4, 0, 0, time.UTC), false},
		{"time passthrough", `<time name="v"/>`, time.Date(0, 1, 1, 1, 2, 3, 0, time.UTC), time.Date(0, 1, 1, 1, 2, 3, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustBuild(t, tt.doc)
			c := domain.Object{}
			_, err := n.Validate(t.Context(), domain.FieldKey("v"), tt.raw, c)
			if tt.wantErr {
				var tce *TypeCoercionError
				require.ErrorAs(t, err, &tce)
				assert.Equal(t, tt.raw, tce.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c["v"])
		})
	}
}

func TestTranslateLayout(t *testing.T) {
	tests := map[string]string{
		"%Y-%m-%d":          "2006-01-02",
		"%H:%M:%S":          "15:04:05",
		"%d %B %y":          "02 January 06",
		"%a %b %e %I:%M %p": "Mon Jan _2 03:04 PM",
		"%H:%M:%S.%f":       "15:04:05.000000",
		"%d%%":              "02%",
		"%Y-%m-%dT%H:%M:%S": "2006-01-02T15:04:05",
	}
	for in, want := range tests {
		got, err := translateLayout(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"%Q", "%Y-%", "%d Jan", "%H PM", "Mon %d", "%Y 1 %m", "100%%"} {
		_, err := translateLayout(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate_TimeErrorNamesFormat(t *testing.T) {
	n := mustBuild(t, `<time name="t" time-format="%H:%M"/>`)
	_, err := n.Validate(t.Context(), domain.FieldKey("t"), "bad", domain.Object{})
	var tce *TypeCoercionError
	require.ErrorAs(t, err, &tce)
	assert.Contains(t, err.Error(), `does not match format "%H:%M"`)
}

func TestValidate_ListCoercesInPlace(t *testing.T) {
	cat := newTestCatalog()
	s := mustLoad(t, `<output><list name="items"><integer format="record"/></list></output>`, WithCatalog(cat))

	list := []any{"1", "2", "x"}
	_, err := s.Validate(t.Context(), map[string]any{"items": list})

	var tce *TypeCoercionError
	require.ErrorAs(t, err, &tce)
	assert.Equal(t, "x", tce.Value)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "items[2]", pe.Path.String())

	assert.Equal(t, []any{int64(1), int64(2), "x"}, list, "elements before the failure are coerced in place")
	assert.Equal(t, []string{"[0]", "[1]"}, cat.recorded(), "validators never run on the failing element")
}

func TestValidate_ObjectInsertsMissing(t *testing.T) {
	s := mustLoad(t, `<output><object name="o"><string name="a"/><integer name="b"/></object></output>`)

	out, err := s.Validate(t.Context(), map[string]any{"o": map[string]any{"a": "hi"}})
	require.NoError(t, err)

	o := out["o"].(map[string]any)
	assert.Equal(t, "hi", o["a"])
	v, ok := o["b"]
	assert.True(t, ok, "absent children get an entry")
	assert.Nil(t, v)
}

func TestValidate_ObjectCorrectionsPropagate(t *testing.T) {
	s := mustLoad(t, `<output>
    <object name="profile">
        <string name="name" format="swap; upper"/>
        <string name="note" format="drop"/>
        <string name="mood" format="nullify"/>
    </object>
</output>`, WithCatalog(newTestCatalog()))

	out, err := s.Validate(t.Context(), map[string]any{
		"profile": map[string]any{"name": "ada", "note": "x", "mood": "ok"},
	})
	require.NoError(t, err)

	profile := out["profile"].(map[string]any)
	assert.Equal(t, "ADA", profile["name"], "corrections on a replaced container reach the parent")
	assert.NotContains(t, profile, "note", "filtered entries stay filtered")
	assert.Contains(t, profile, "mood")
	assert.Nil(t, profile["mood"])
}

func TestValidate_ValidatorFailureCarriesPath(t *testing.T) {
	s := mustLoad(t, `<output><object name="profile"><email name="email" format="fail"/></object></output>`,
		WithCatalog(newTestCatalog()))

	_, err := s.Validate(t.Context(), map[string]any{"profile": map[string]any{"email": "nope"}})

	var vf *ValidatorFailure
	require.ErrorAs(t, err, &vf)
	assert.Equal(t, "nope", vf.Value)
	assert.EqualError(t, err, `profile.email: validator fail failed on "nope": always fails`)
}

func TestValidate_CompositeTypeMismatch(t *testing.T) {
	s := mustLoad(t, `<output><list name="l"><string/></list><object name="o"/></output>`)

	_, err := s.Validate(t.Context(), map[string]any{"l": "not a list"})
	var tce *TypeCoercionError
	assert.ErrorAs(t, err, &tce)

	_, err = s.Validate(t.Context(), map[string]any{"l": []any{}, "o": []any{1}})
	assert.ErrorAs(t, err, &tce)
}

func TestValidate_NilComposites(t *testing.T) {
	s := mustLoad(t, `<output>
    <list name="l"><integer/></list>
    <object name="o"><string name="a"/></object>
</output>`)

	out, err := s.Validate(t.Context(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"l": nil, "o": nil}, out)
}

const choiceDoc = `<output>
    <choice name="action" on-fail-choice="noop">
        <case name="fight">
            <object name="fight"><string name="weapon" format="upper"/></object>
        </case>
        <case name="flight">
            <integer name="distance"/>
        </case>
    </choice>
</output>`

func TestValidate_Choice(t *testing.T) {
	s := mustLoad(t, choiceDoc, WithCatalog(newTestCatalog()))

	t.Run("dispatches on the selector", func(t *testing.T) {
		out, err := s.Validate(t.Context(), map[string]any{
			"action": "fight",
			"fight":  map[string]any{"weapon": "sword"},
		})
		require.NoError(t, err)
		assert.Equal(t, "fight", out["action"])
		assert.Equal(t, map[string]any{"weapon": "SWORD"}, out["fight"])
	})

	t.Run("scalar case", func(t *testing.T) {
		out, err := s.Validate(t.Context(), map[string]any{"action": "flight", "flight": "30"})
		require.NoError(t, err)
		assert.Equal(t, int64(30), out["flight"])
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, err := s.Validate(t.Context(), map[string]any{"action": "swim"})
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Contains(t, se.Reason, `"swim"`)
	})

	t.Run("non-string selector", func(t *testing.T) {
		_, err := s.Validate(t.Context(), map[string]any{"action": 3})
		var se *SchemaError
		assert.ErrorAs(t, err, &se)
	})
}

func TestValidate_ChoiceValidatorRunsFirst(t *testing.T) {
	doc := `<output><choice name="c"><case name="a"><string name="a"/></case></choice></output>`
	s := mustLoad(t, doc, WithCatalog(newTestCatalog()))

	_, err := s.Validate(t.Context(), map[string]any{"c": "b"})
	var vf *ValidatorFailure
	require.ErrorAs(t, err, &vf, "the synthesized choice validator rejects undeclared selectors")
	assert.Equal(t, "choice", vf.Validator)
}

func TestValidate_Idempotent(t *testing.T) {
	s := mustLoad(t, `<output>
    <string name="name" format="upper"/>
    <list name="scores"><integer/></list>
    <object name="meta"><date name="when"/><bool name="ok"/><float name="ratio"/></object>
</output>`, WithCatalog(newTestCatalog()))

	first, err := s.Validate(t.Context(), map[string]any{
		"name":   "ada",
		"scores": []any{"1", 2.0},
		"meta":   map[string]any{"when": "2024-01-02", "ok": "true", "ratio": "0.5"},
	})
	require.NoError(t, err)

	snapshot, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := s.Validate(t.Context(), first)
	require.NoError(t, err)
	again, err := json.Marshal(second)
	require.NoError(t, err)

	assert.JSONEq(t, string(snapshot), string(again))
	assert.Equal(t, int64(1), second["scores"].([]any)[0])
}

func TestValidate_Concurrent(t *testing.T) {
	s := mustLoad(t, `<output>
    <string name="name" format="upper"/>
    <list name="scores"><integer/></list>
</output>`, WithCatalog(newTestCatalog()))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("user%d", i)
			out, err := s.Validate(context.Background(), map[string]any{
				"name":   name,
				"scores": []any{fmt.Sprint(i), i},
			})
			if err != nil {
				errs <- err
				return
			}
			if out["name"] != fmt.Sprintf("USER%d", i) || out["scores"].([]any)[0] != int64(i) {
				errs <- fmt.Errorf("call %d got %v", i, out)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestValidate_Hooks(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(s string) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	}
	hooks := Hooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) { record("enter " + e.Path) },
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				record("fail " + e.Path)
				return
			}
			record("leave " + e.Path)
		},
		OnValidatorCall: func(ctx context.Context, e *domain.ValidatorEvent) {
			record("call " + e.Validator + " " + domain.CallID(ctx))
		},
		OnValidatorReturn: func(_ context.Context, e *domain.ValidatorEvent) { record("return " + e.Validator) },
	}
	s := mustLoad(t, `<output><list name="l"><string format="upper"/></list></output>`,
		WithCatalog(newTestCatalog()), WithHooks(hooks))

	ctx := domain.WithCallID(t.Context(), "c1")
	_, err := s.Validate(ctx, map[string]any{"l": []any{"a"}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"enter ",
		"enter l",
		"enter l[0]",
		"call upper c1",
		"return upper",
		"leave l[0]",
		"leave l",
		"leave ",
	}, events)
}

func TestValidate_Canceled(t *testing.T) {
	s := mustLoad(t, `<output><string name="a"/></output>`)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := s.Validate(ctx, map[string]any{"a": "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
