package mongodb

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	MethodRead          methodMetric = "Read"
	MethodReadPrimary   methodMetric = "ReadPrimary"
	MethodReadSecondary methodMetric = "ReadSecondary"
	MethodWrite         methodMetric = "Write"
	MethodUploadFile    methodMetric = "UploadFile"
	MethodDownloadFile  methodMetric = "DownloadFile"
)

const metricDateLayout = "2006-01-02"

type methodMetric string

// metric keeps per method counters, reset when the day changes.
type metric struct {
	date    string
	summary map[methodMetric]*operation
	sync.Mutex
}

type operation struct {
	readCount   int64
	readFailed  int64
	writeCount  int64
	writeFailed int64
	lastIssue   error

	sync.Mutex
}

func (m *metric) init(method ...methodMetric) {
	m.Lock()
	defer m.Unlock()
	m.initLocked(method...)
}

func (m *metric) initLocked(method ...methodMetric) {
	// reset daily
	today := time.Now().Format(metricDateLayout)
	if m.date == "" || m.summary == nil || m.date != today {
		m.date = today
		m.summary = make(map[methodMetric]*operation)
	}
	for _, mtd := range method {
		if _, ok := m.summary[mtd]; !ok {
			m.summary[mtd] = &operation{}
		}
	}
}

// operation returns the counters of method, creating them when needed.
func (m *metric) operation(method methodMetric) *operation {
	m.Lock()
	defer m.Unlock()
	m.initLocked(method)
	return m.summary[method]
}

// mapping renders the counters of method as log fields. It returns nil for a
// method that was never counted today.
func (m *metric) mapping(t time.Time, method methodMetric) *convention.Mapping {
	m.Lock()
	m.initLocked()
	op, ok := m.summary[method]
	date := m.date
	m.Unlock()
	if !ok {
		return nil
	}

	op.Lock()
	defer op.Unlock()
	issue := ""
	if op.lastIssue != nil {
		issue = op.lastIssue.Error()
	}
	return convention.NewMapping(
		convention.F("type", string(method)),
		convention.F("date", date),
		convention.F("read", op.readCount),
		convention.F("read_failed", op.readFailed),
		convention.F("write", op.writeCount),
		convention.F("write_failed", op.writeFailed),
		convention.F("issue", issue),
		convention.F("duration", time.Since(t)),
	)
}

func (m *metric) print(log *logger.Log, t time.Time, method methodMetric) {
	if pairs := m.mapping(t, method); pairs != nil {
		log.InfoMapping("MongoDB metric", pairs)
	}
}

func (m *metric) incRead(method methodMetric, issue error) {
	op := m.operation(method)
	op.Lock()
	defer op.Unlock()
	op.readCount++
	// not found is not considered as a failed read
	if errors.Is(issue, mongo.ErrNoDocuments) {
		return
	}
	if issue != nil {
		op.readFailed++
		op.lastIssue = issue
	}
}

func (m *metric) incWrite(method methodMetric, issue error) {
	op := m.operation(method)
	op.Lock()
	defer op.Unlock()
	op.writeCount++
	if errors.Is(issue, mongo.ErrNoDocuments) {
		return
	}
	if issue != nil {
		op.writeFailed++
		op.lastIssue = issue
	}
}
