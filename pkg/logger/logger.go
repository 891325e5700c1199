package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	InfoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	WarnLogger  = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	initOnce sync.Once
)

// Init loggerlarni sozlash (bir marta)
func Init() {
	initOnce.Do(func() {
		log.SetFlags(log.Ldate | log.Ltime)
		log.SetPrefix("")
	})
}

// SetOutput barcha loggerlarni bitta writer ga yo'naltirish (testlar uchun)
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	WarnLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}
