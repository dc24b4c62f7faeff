package logger

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s]+`)
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._\-]+`)
	secretPattern = regexp.MustCompile(`(?i)(token|key|secret)([=:]\s*)[A-Za-z0-9._\-]+`)
)

// SecurityLogger keeps vendor tokens and endpoint paths out of log output.
type SecurityLogger struct {
	*Logger
}

func NewSecurityLogger(base *Logger) *SecurityLogger {
	return &SecurityLogger{Logger: base}
}

// MaskToken returns a stable fingerprint that identifies a token without revealing it.
func (sl *SecurityLogger) MaskToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "unset"
	}
	return "token#" + sl.GenerateHash(token)[:8]
}

// MaskAPIEndpoint keeps the host and hides the path and query.
func (sl *SecurityLogger) MaskAPIEndpoint(apiURL string) string {
	if apiURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(apiURL)
	if err != nil || parsedURL.Host == "" {
		return "api-endpoint#" + sl.GenerateHash(apiURL)[:8]
	}

	return fmt.Sprintf("%s/api#%s", parsedURL.Host, sl.GenerateHash(apiURL)[:8])
}

// MaskSensitiveData masks values whose keys look like credentials or URLs.
func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))

	for key, value := range data {
		lowerKey := strings.ToLower(key)
		str, isString := value.(string)

		switch {
		case !isString:
			masked[key] = value
		case strings.Contains(lowerKey, "token"), strings.Contains(lowerKey, "secret"),
			strings.Contains(lowerKey, "api_key"), strings.Contains(lowerKey, "password"):
			masked[key] = sl.MaskToken(str)
		case strings.Contains(lowerKey, "url"), strings.Contains(lowerKey, "endpoint"):
			masked[key] = sl.MaskAPIEndpoint(str)
		default:
			masked[key] = value
		}
	}

	return masked
}

// MaskLogMessage masks URLs and inline credentials in free-form text.
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	masked := urlPattern.ReplaceAllStringFunc(message, sl.MaskAPIEndpoint)
	masked = bearerPattern.ReplaceAllString(masked, "${1}***")
	return secretPattern.ReplaceAllString(masked, "${1}${2}***")
}

func (sl *SecurityLogger) GenerateHash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}

func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	sl.with(fields).Info(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeWarn(msg string, fields map[string]interface{}) {
	sl.with(fields).Warn(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	l := sl.with(fields)
	if err != nil {
		l = l.WithField("error", sl.MaskLogMessage(err.Error()))
	}
	l.Error(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeDebug(msg string, fields map[string]interface{}) {
	sl.with(fields).Debug(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) with(fields map[string]interface{}) *Logger {
	if len(fields) == 0 {
		return sl.Logger
	}
	return sl.Logger.WithFields(sl.MaskSensitiveData(fields))
}

var (
	securityLoggerInstance *SecurityLogger
	securityOnce           sync.Once
)

// GetSecurityLogger returns a security logger bound to the global logger.
func GetSecurityLogger() *SecurityLogger {
	securityOnce.Do(func() {
		securityLoggerInstance = NewSecurityLogger(GetLogger())
	})
	return securityLoggerInstance
}
