package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"todo/internal/gateway"
	"todo/internal/task"
	"todo/internal/tracker"
)

type fakeStatus map[tracker.Key]error

func (f fakeStatus) StatusOf(id int64, kind tracker.Kind) tracker.Status {
	err, ok := f[tracker.Key{TaskID: id, Kind: kind}]
	switch {
	case !ok:
		return tracker.Idle
	case err == nil:
		return tracker.Pending
	default:
		return tracker.Errored
	}
}

func (f fakeStatus) Failure(id int64, kind tracker.Kind) error {
	return f[tracker.Key{TaskID: id, Kind: kind}]
}

func TestFormatTask_Plain(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 1, task.Task{ID: 1, Title: "Buy bread"}, fakeStatus{})
	assert.Equal(t, "   1  Buy bread\n", buf.String())
}

func TestFormatTask_Markers(t *testing.T) {
	sr := fakeStatus{
		{TaskID: 1, Kind: tracker.Complete}: &gateway.RemoteFailure{StatusCode: 500},
		{TaskID: 1, Kind: tracker.Delete}:   nil,
	}
	var buf bytes.Buffer
	FormatTask(&buf, 2, task.Task{ID: 1, Title: "Buy bread"}, sr)
	assert.Equal(t, "   2  Buy bread  [✕ error 500]  [deleting…]\n", buf.String())
}

func TestFormatTask_NormalizesTitle(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 3, task.Task{ID: 3, Title: "a\nb"}, nil)
	assert.Equal(t, "   3  a b\n", buf.String())
}

func TestStatusTable(t *testing.T) {
	sr := fakeStatus{
		{TaskID: 2, Kind: tracker.Delete}: &gateway.RemoteFailure{StatusCode: 503},
	}
	var buf bytes.Buffer
	StatusTable(&buf, []task.Task{
		{ID: 1, Title: "Buy bread", Done: true},
		{ID: 2, Title: "Call the doctor"},
	}, sr)

	out := buf.String()
	assert.Contains(t, out, "COMPLETE")
	assert.Contains(t, out, "Call the doctor")
	assert.Contains(t, out, "errored 503")
	assert.Equal(t, 1, strings.Count(out, "yes"))
}
