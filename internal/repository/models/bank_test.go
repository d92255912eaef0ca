package models

import (
	"testing"

	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionList_Value(t *testing.T) {
	v, err := QuestionList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = QuestionList{{ID: "q1", Type: domain.QuestionTypeTrueFalse, Prompt: "True or false: water boils at 100C.", Answer: "True", Difficulty: 1}}.Value()
	require.NoError(t, err)
	assert.Contains(t, v, `"id":"q1"`)
	assert.Contains(t, v, `"type":"true_false"`)
}

func TestQuestionList_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantLen int
		wantErr bool
	}{
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"json null", []byte("null"), 0, false},
		{"one question", `[{"id":"q1","type":"mcq","prompt":"p","options":["a","b"],"answer":"a","difficulty":2}]`, 1, false},
		{"bytes", []byte(`[{"id":"q1"},{"id":"q2"}]`), 2, false},
		{"unsupported type", 42, 0, true},
		{"malformed", "[{", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q QuestionList
			err := q.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, q)
			assert.Len(t, q, tt.wantLen)
		})
	}
}

func TestStringMap_ValueAndScan(t *testing.T) {
	v, err := StringMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	var m StringMap
	require.NoError(t, m.Scan(`{"source":"text_input"}`))
	assert.Equal(t, StringMap{"source": "text_input"}, m)

	require.NoError(t, m.Scan(nil))
	assert.Equal(t, StringMap{}, m)

	assert.Error(t, m.Scan(3.14))
}
