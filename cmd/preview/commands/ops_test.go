package commands

import (
	"testing"

	preview "github.com/ironsheep/image-preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resize:100,80", "resize(100,80,1,0);"},
		{"resize:100,0,0,1", "resize(100,0,0,1);"},
		{"RESIZE: 10 , 20 ", "resize(10,20,1,0);"},
		{"crop:50,50", "crop(50,50,0,0);"},
		{"crop:50,50,-5,10", "crop(50,50,-5,10);"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			op, err := parseOperation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op.String())
		})
	}
}

func TestParseOperation_Errors(t *testing.T) {
	for _, in := range []string{
		"resize",
		"resize:",
		"resize:a,b",
		"crop:1",
		"crop:1,2,3,4,5",
		"rotate:90,0",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := parseOperation(in)
			assert.Error(t, err)
		})
	}
}

func TestParseOperations(t *testing.T) {
	ops, err := parseOperations([]string{"resize:10,10", "crop:5,5"})
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, preview.MethodResize, ops[0].Method)
	assert.Equal(t, preview.MethodCrop, ops[1].Method)

	_, err = parseOperations([]string{"resize:10,10", "bad"})
	assert.Error(t, err)
}
