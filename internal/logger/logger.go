package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordLimit caps one encoded request record on stderr. Bodies are replaced
// with a marker, response first, until the record fits.
var RecordLimit = 64 * 1024

const (
	truncated = "TRUNCATED..."
	// request log type
	requestType = "request"
	// RequestIDHeader carries the request id in and out of the HTTP transport
	RequestIDHeader = "X-Request-Id"
)

// logRecord for Request Log
type logRecord struct {
	RequestID       string
	Timestamp       int64
	Duration        int64
	HTTPStatusCode  int
	ErrorStackTrace string
	HTTPMethod      string
	RequestPath     string
	RequestQuery    string
	RequestBody     string
	ResponseBody    string
	Headers         map[string][]string
	Type            string `json:"type"`
}

func (record *logRecord) String() string {
	buf := bytes.NewBufferString("")
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	e := encoder.Encode(record)
	if e != nil {
		GetLogger().Error("failed to encode log record", zap.Error(e))
		return "{}"
	}
	return buf.String()
}

// GinLogMiddleware logs every request to the HTTP transport, including the
// JSON-RPC body in and out.
func GinLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var logRecord *logRecord
		// overwrite the gin.Context.Writer to log response body
		respLogWriter := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = respLogWriter

		defer func() {
			// finally print request log even panic
			GetLogger().Info("http request", zap.String("record", logTruncate(logRecord)))
		}()

		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logRecord.HTTPStatusCode = http.StatusInternalServerError
				logRecord.ErrorStackTrace = stack
				// throw the panic to the later middlewares
				panic(r)
			}
		}()

		logRecord = initLogRecord(c)

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		logRecord.RequestID = requestID
		c.Header(RequestIDHeader, requestID)

		c.Next()

		// if response normally, fill in remain fields
		logRecord.HTTPStatusCode = c.Writer.Status()
		logRecord.Duration = time.Now().UnixNano()/1e6 - logRecord.Timestamp
		if respLogWriter.streaming() {
			logRecord.ResponseBody = "(event stream)"
		} else {
			logRecord.ResponseBody = respLogWriter.body.String()
		}
	}
}

func logTruncate(record *logRecord) string {
	out := record.String()
	for _, field := range []*string{&record.ResponseBody, &record.RequestBody, &record.ErrorStackTrace} {
		if len(out) <= RecordLimit {
			break
		}
		*field = truncated
		out = record.String()
	}
	return out
}

// respLogWriter copies the response body for the log. Event streams are
// passed through uncopied since they last as long as the session.
type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w respLogWriter) streaming() bool {
	return strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream")
}

func (w respLogWriter) Write(b []byte) (int, error) {
	if !w.streaming() {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w respLogWriter) WriteString(s string) (int, error) {
	if !w.streaming() {
		w.body.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

func initLogRecord(ctx *gin.Context) *logRecord {
	var requestBody string
	requestBodyBytes, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		GetLogger().Warn("failed to read request body", zap.Error(err))
	}
	// reattach request body for later use
	ctx.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
	requestBody = string(requestBodyBytes)

	headers := ctx.Request.Header.Clone()
	// never log credentials
	headers.Del("Authorization")

	return &logRecord{
		Timestamp:    time.Now().UnixNano() / 1e6,
		HTTPMethod:   ctx.Request.Method,
		RequestPath:  ctx.Request.URL.Path,
		RequestQuery: ctx.Request.URL.Query().Encode(),
		RequestBody:  requestBody,
		Type:         requestType,
		Headers:      headers,
	}
}
