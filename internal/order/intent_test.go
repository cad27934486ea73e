package order

import (
	"testing"

	"buyforyou-bot/internal/pricing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(testTable(t))

	testCases := []struct {
		TestName string
		Input    Input
		Want     Intent
	}{
		{
			TestName: "start command",
			Input:    Input{Command: "start", Text: "/start"},
			Want:     Intent{Kind: IntentStart},
		},
		{
			TestName: "cancel command restarts",
			Input:    Input{Command: "cancel"},
			Want:     Intent{Kind: IntentRestart},
		},
		{
			TestName: "unknown command",
			Input:    Input{Command: "foo", Text: "/foo"},
			Want:     Intent{Kind: IntentUnknown, Text: "/foo"},
		},
		{
			TestName: "order button",
			Input:    Input{Text: LabelStartOrder},
			Want:     Intent{Kind: IntentStartOrder, Text: LabelStartOrder},
		},
		{
			TestName: "back to start button",
			Input:    Input{Text: LabelRestart},
			Want:     Intent{Kind: IntentRestart, Text: LabelRestart},
		},
		{
			TestName: "category button",
			Input:    Input{Text: "Сумки/Рюкзаки"},
			Want:     Intent{Kind: IntentCategory, Category: pricing.CategoryBags, Text: "Сумки/Рюкзаки"},
		},
		{
			TestName: "category must match exactly",
			Input:    Input{Text: "сумки/рюкзаки"},
			Want:     Intent{Kind: IntentText, Text: "сумки/рюкзаки"},
		},
		{
			TestName: "rate override",
			Input:    Input{Text: "set yuan 12,1"},
			Want:     Intent{Kind: IntentSetRate, Text: "set yuan 12,1"},
		},
		{
			TestName: "photo wins over caption",
			Input:    Input{PhotoRef: "file", Text: "вот"},
			Want:     Intent{Kind: IntentPhoto, PhotoRef: "file", Text: "вот"},
		},
		{
			TestName: "plain text is trimmed",
			Input:    Input{Text: "  42 "},
			Want:     Intent{Kind: IntentText, Text: "42"},
		},
		{
			TestName: "empty message",
			Input:    Input{},
			Want:     Intent{Kind: IntentUnknown},
		},
		{
			TestName: "submit callback",
			Input:    Input{Callback: CallbackSubmit},
			Want:     Intent{Kind: IntentSubmit},
		},
		{
			TestName: "edit callback",
			Input:    Input{Callback: EditCallback(FieldPrice, 2)},
			Want:     Intent{Kind: IntentEdit, Edit: EditTarget{Field: FieldPrice, Index: 2}},
		},
		{
			TestName: "malformed edit callback",
			Input:    Input{Callback: "edit:colour:1"},
			Want:     Intent{Kind: IntentUnknown},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			got := c.Classify(tc.Input)
			if diff := cmp.Diff(tc.Want, got); diff != "" {
				t.Errorf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEditCallback(t *testing.T) {
	for _, bad := range []string{"", "edit:", "edit:size", "edit:size:-1", "edit:size:x", "edit:size:1:2", "order:submit"} {
		if _, ok := ParseEditCallback(bad); ok {
			t.Errorf("ParseEditCallback(%q) accepted", bad)
		}
	}

	got, ok := ParseEditCallback("edit:contact:0")
	if !ok || got != (EditTarget{Field: FieldContact}) {
		t.Errorf("ParseEditCallback = %+v, %v", got, ok)
	}
}
