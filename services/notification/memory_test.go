package notifsvc

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/backend/core"
)

func Test_MemorySink(t *testing.T) {
	sink := NewMemorySink()

	assert.Empty(t, sink.Query("u1"))
	assert.Equal(t, 0, sink.UnreadCount("u1"))

	sink.Notify("u1", core.Notice{Kind: core.NoticeSuccess, Title: "First"})
	sink.Notify("u1", core.Notice{Kind: core.NoticeInfo, Title: "Second"})
	sink.Notify("u2", core.Notice{Kind: core.NoticeWarning, Title: "Other feed"})

	// newest first
	feed := sink.Query("u1")
	if assert.Len(t, feed, 2) {
		assert.Equal(t, "Second", feed[0].Title)
		assert.Equal(t, "First", feed[1].Title)
	}
	assert.Equal(t, 2, sink.UnreadCount("u1"))
	assert.Equal(t, 1, sink.UnreadCount("u2"))

	sink.MarkRead("u1", feed[0].ID)
	assert.Equal(t, 1, sink.UnreadCount("u1"))
	// the Query snapshot is detached from the feed
	assert.False(t, feed[0].Read)
	assert.True(t, sink.Query("u1")[0].Read)

	// unknown ids and wrong feeds are ignored
	sink.MarkRead("u1", "nope")
	sink.MarkRead("u2", feed[1].ID)
	assert.Equal(t, 1, sink.UnreadCount("u1"))
	assert.Equal(t, 1, sink.UnreadCount("u2"))

	sink.MarkAllRead("u1")
	assert.Equal(t, 0, sink.UnreadCount("u1"))
	assert.Equal(t, 1, sink.UnreadCount("u2"))
}

func Test_MemorySink_concurrent(t *testing.T) {
	sink := NewMemorySink()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i%2)
			for j := 0; j < 50; j++ {
				sink.Notify(userID, core.Notice{Kind: core.NoticeInfo, Title: "ping"})
				sink.UnreadCount(userID)
				sink.Query(userID)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, sink.Query("u0"), 250)
	assert.Len(t, sink.Query("u1"), 250)
}
