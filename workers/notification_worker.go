package workers

import (
	"log"
	"sync"
	"time"

	"github.com/chroniclehq/chroniclebackend/realtime"
)

// NotificationDispatcher fans moderation events out to the realtime hub from
// a small worker pool. Publishing never blocks the caller and a full queue
// drops the event: notification delivery must never delay or roll back a
// content transition.
type NotificationDispatcher struct {
	JobQueue chan realtime.Event
	Hub      *realtime.Hub
	Wg       sync.WaitGroup
	StopChan chan struct{}
}

func NewNotificationDispatcher(hub *realtime.Hub, queueSize, numWorkers int) *NotificationDispatcher {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	dispatcher := &NotificationDispatcher{
		JobQueue: make(chan realtime.Event, queueSize),
		Hub:      hub,
		StopChan: make(chan struct{}),
	}
	dispatcher.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go dispatcher.worker(i)
	}
	log.Printf("Started %d notification worker(s) with queue size %d", numWorkers, queueSize)
	return dispatcher
}

// worker forwards queued events to the hub until stopped
func (nd *NotificationDispatcher) worker(id int) {
	defer nd.Wg.Done()

	log.Printf("Notification worker %d started", id)
	for {
		select {
		case event, ok := <-nd.JobQueue:
			if !ok {
				log.Printf("Notification worker %d stopping: Job queue closed", id)
				return
			}
			if event.Timestamp == 0 {
				event.Timestamp = time.Now().Unix()
			}
			nd.Hub.Broadcast(event)
		case <-nd.StopChan:
			log.Printf("Notification worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// Notify queues an event for delivery. It is fire-and-forget: when the queue
// is full the event is dropped and the caller is never blocked.
func (nd *NotificationDispatcher) Notify(event realtime.Event) {
	select {
	case nd.JobQueue <- event:
	default:
		log.Printf("WARNING: Notification queue full. Dropped event '%s' for person %s", event.Kind, event.PersonID)
	}
}

func (nd *NotificationDispatcher) Stop() {
	log.Println("Stopping notification workers...")
	close(nd.StopChan)
	nd.Wg.Wait()
	log.Println("All notification workers stopped")
}
