package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJobInput(t *testing.T) {
	in, err := DecodeJobInput([]byte(`{"name":"a","processingTime":1.5,"profit":3,"deadline":4,"flexibility":"strict"}`))
	require.NoError(t, err)
	assert.Equal(t, JobInput{Name: "a", ProcessingTime: 1.5, Profit: 3, Deadline: 4, Flexibility: Strict}, in)
}

func TestDecodeJobInputErrors(t *testing.T) {
	cases := []struct {
		body  string
		field string
	}{
		{`[1,2]`, "body"},
		{`not json`, "body"},
		{`null`, "body"},
		{`{"processingTime":1,"profit":1,"deadline":1,"flexibility":"strict"}`, "name"},
		{`{"name":"a","processingTime":1,"deadline":1,"flexibility":"strict"}`, "profit"},
		{`{"name":"a","processingTime":1,"profit":null,"deadline":1,"flexibility":"strict"}`, "profit"},
		{`{"name":"a","processingTime":"1","profit":1,"deadline":1,"flexibility":"strict"}`, "processingTime"},
		{`{"name":"a","processingTime":1,"profit":1,"deadline":"soon","flexibility":"strict"}`, "deadline"},
		{`{"name":"a","processingTime":0,"profit":1,"deadline":1,"flexibility":"strict"}`, "processingTime"},
		{`{"name":"a","processingTime":1,"profit":1,"deadline":1,"flexibility":"rigid"}`, "flexibility"},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			_, err := DecodeJobInput([]byte(tc.body))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
