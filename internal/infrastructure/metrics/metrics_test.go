package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMessageOperation(t *testing.T) {
	before := testutil.ToFloat64(MessageOperationsTotal.WithLabelValues("create", "error"))

	RecordMessageOperation("create", errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(MessageOperationsTotal.WithLabelValues("create", "error")))
}

func TestRecordUpload_OnlyCountsBytesOnSuccess(t *testing.T) {
	before := testutil.ToFloat64(UploadBytesTotal)

	RecordUpload("image/png", 100, nil)
	RecordUpload("image/png", 50, errors.New("too large"))

	assert.Equal(t, before+100, testutil.ToFloat64(UploadBytesTotal))
}
