package httpserver

import "time"

// Config is loaded with the HTTP prefix.
type Config struct {
	Port         int           `default:"8080"`
	RateLimit    float64       `split_words:"true" default:"50"`
	RateBurst    int           `split_words:"true" default:"100"`
	ReadTimeout  time.Duration `split_words:"true" default:"15s"`
	WriteTimeout time.Duration `split_words:"true" default:"15s"`
}
