package database

import (
	"sync"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	log "github.com/sirupsen/logrus"
)

type (
	// BulkChange represents an mgo upsert or removal
	BulkChange struct {
		Selector  interface{} // The selector document
		Update    interface{} // The update document, used as the replacement on upsert
		Remove    bool        // Whether to remove the documents found rather than upserting
		SelectAll bool        // Whether to use RemoveAll
	}

	// BulkChanges is a map of collections to the changes that should be applied to each one
	BulkChanges map[string][]BulkChange

	// MgoBulkWriter batches bulk changes for MongoDB on a single goroutine
	MgoBulkWriter struct {
		db           *DB              // provides access to MongoDB
		log          *log.Logger      // main logger
		writeChannel chan BulkChanges // holds analyzed data
		writeWg      sync.WaitGroup   // wait for writing to finish
		writerName   string           // used in error reporting
		maxBulkCount int              // max number of changes to include in each bulk update
		maxBulkSize  int              // max total size of BSON documents making up each bulk update
		errMu        sync.Mutex
		errCount     int
	}
)

// Size serializes the changes to BSON using the provided buffer and returns the
// total size of the selector and update documents
func (m BulkChange) Size(buffer []byte) ([]byte, int) {
	size := 0
	buffer = buffer[:0]

	if m.Selector != nil {
		buffer, _ = bson.MarshalBuffer(m.Selector, buffer)
		size += len(buffer)
		buffer = buffer[:0]
	}
	if m.Update != nil {
		buffer, _ = bson.MarshalBuffer(m.Update, buffer)
		size += len(buffer)
		buffer = buffer[:0]
	}
	return buffer, size
}

// Apply adds the change described to a bulk buffer
func (m BulkChange) Apply(bulk *mgo.Bulk) {
	if m.Selector == nil {
		return // can't describe a change without a selector
	}

	switch {
	case m.Remove && m.SelectAll:
		bulk.RemoveAll(m.Selector)
	case m.Remove:
		bulk.Remove(m.Selector)
	case m.Update != nil:
		bulk.Upsert(m.Selector, m.Update)
	}
}

// NewBulkWriter creates a new writer object to write output data to collections
func NewBulkWriter(db *DB, log *log.Logger, writerName string) *MgoBulkWriter {
	return &MgoBulkWriter{
		db:           db,
		log:          log,
		writeChannel: make(chan BulkChanges),
		writerName:   writerName,
		// limit the buffer to 500 to stay clear of the 16MB command limit
		maxBulkCount: 500,
		maxBulkSize:  15 * 1000 * 1000,
	}
}

// Collect sends a group of results to the writer for writing out to the database
func (w *MgoBulkWriter) Collect(data BulkChanges) {
	w.writeChannel <- data
}

// Close waits for the write thread to finish and reports how many bulk
// runs failed
func (w *MgoBulkWriter) Close() int {
	close(w.writeChannel)
	w.writeWg.Wait()

	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.errCount
}

// Start kicks off the write thread. Changes for one collection are applied
// in the order they were collected.
func (w *MgoBulkWriter) Start() {
	w.writeWg.Add(1)
	go func() {
		defer w.writeWg.Done()
		ssn := w.db.Session.Copy()
		defer ssn.Close()

		bulkBuffers := map[string]*mgo.Bulk{}
		bulkBufferSizes := map[string]int{}
		bulkBufferLengths := map[string]int{}
		var sizeBuffer []byte
		var changeSize int

		for data := range w.writeChannel {
			for tgtColl, bulkChanges := range data {
				bulkBuffer, bufferExists := bulkBuffers[tgtColl]
				if !bufferExists {
					bulkBuffer = ssn.DB(w.db.GetSelectedDB()).C(tgtColl).Bulk()
					bulkBuffers[tgtColl] = bulkBuffer
				}

				for _, change := range bulkChanges {
					sizeBuffer, changeSize = change.Size(sizeBuffer)

					if bulkBufferLengths[tgtColl] >= w.maxBulkCount || bulkBufferSizes[tgtColl]+changeSize >= w.maxBulkSize {
						w.run(tgtColl, bulkBuffer)
						bulkBuffer = ssn.DB(w.db.GetSelectedDB()).C(tgtColl).Bulk()
						bulkBuffers[tgtColl] = bulkBuffer
						bulkBufferLengths[tgtColl] = 0
						bulkBufferSizes[tgtColl] = 0
					}

					change.Apply(bulkBuffer)
					bulkBufferLengths[tgtColl]++
					bulkBufferSizes[tgtColl] += changeSize
				}
			}
		}

		for tgtColl, bulkBuffer := range bulkBuffers {
			if bulkBufferLengths[tgtColl] > 0 {
				w.run(tgtColl, bulkBuffer)
			}
		}
	}()
}

func (w *MgoBulkWriter) run(tgtColl string, bulkBuffer *mgo.Bulk) {
	info, err := bulkBuffer.Run()
	if err == nil {
		return
	}
	w.log.WithFields(log.Fields{
		"Module":     w.writerName,
		"Collection": tgtColl,
		"Info":       info,
	}).Error(err)

	w.errMu.Lock()
	w.errCount++
	w.errMu.Unlock()
}
