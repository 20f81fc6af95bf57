package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("Text cannot be empty"), KindValidation},
		{"wrapped extraction", fmt.Errorf("pdf: %w", Extraction("Error reading PDF", errors.New("eof"))), KindExtraction},
		{"no content", NoContent("nothing"), KindNoContent},
		{"summarization failed", SummarizationFailed("Could not generate summary", nil), KindSummarizationFailed},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindExtraction))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindNoContent))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindSummarizationFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("xref table broken")
	err := Extraction("Error reading PDF", cause)

	assert.Equal(t, "Error reading PDF: xref table broken", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Text cannot be empty", Validation("Text cannot be empty").Error())
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Could not generate summary",
		MessageOf(fmt.Errorf("wrap: %w", SummarizationFailed("Could not generate summary", nil)), "generic"))
	assert.Equal(t, "generic", MessageOf(errors.New("raw"), "generic"))
}
