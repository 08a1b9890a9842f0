package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/logger"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "error", SeverityError.String())
}

func TestLogNotifier(t *testing.T) {
	buf := logger.NewBufferLogger()
	n := NewLogNotifier(buf)

	n.Notify(MsgTrendsLoadFailed, SeverityError)
	n.Notify("Counter incremented", SeverityInfo)

	msgs := buf.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "error", msgs[0].Level)
	assert.Equal(t, MsgTrendsLoadFailed, msgs[0].Message)
	assert.Equal(t, "info", msgs[1].Level)
}

func TestChannel_DeliversInOrder(t *testing.T) {
	c := NewChannel(4)

	c.Notify("one", SeverityInfo)
	c.Notify("two", SeverityError)

	first := <-c.C()
	second := <-c.C()
	assert.Equal(t, "one", first.Message)
	assert.Equal(t, "two", second.Message)
	assert.Equal(t, SeverityError, second.Severity)
	assert.False(t, second.Time.IsZero())
}

func TestChannel_DropsWhenFull(t *testing.T) {
	c := NewChannel(1)

	c.Notify("kept", SeverityError)
	c.Notify("dropped", SeverityError)
	c.Notify("dropped", SeverityError)

	assert.Equal(t, 2, c.Dropped())
	assert.Equal(t, "kept", (<-c.C()).Message)
}

func TestChannel_Close(t *testing.T) {
	c := NewChannel(0)
	c.Close()
	c.Close()

	assert.NotPanics(t, func() { c.Notify("late", SeverityError) })
	_, open := <-c.C()
	assert.False(t, open)
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, nil, &b}

	m.Notify(MsgCounterLoadFailed, SeverityError)

	assert.Equal(t, 1, a.Count(MsgCounterLoadFailed))
	assert.Equal(t, 1, b.Count(MsgCounterLoadFailed))
}

func TestFunc(t *testing.T) {
	var got string
	Func(func(msg string, _ Severity) { got = msg }).Notify(MsgIncrementFailed, SeverityError)

	assert.Equal(t, MsgIncrementFailed, got)
	assert.NotPanics(t, func() { Discard.Notify("x", SeverityInfo) })
}

func TestRecorder_Concurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Notify(MsgTrendsLoadFailed, SeverityError)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, r.Count(MsgTrendsLoadFailed))
	assert.Len(t, r.All(), 20)
}
