package grafana

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os"
)

// FailureKind classifies a transport-level publish failure so the CLI can
// print the right diagnostic block.
type FailureKind string

const (
	// KindTimeout means Grafana did not respond within the request budget.
	KindTimeout FailureKind = "timeout"

	// KindTLS means the TLS handshake or certificate verification failed.
	KindTLS FailureKind = "tls"

	// KindConnection means the TCP connection could not be established.
	KindConnection FailureKind = "connection"

	// KindOther is any transport failure outside the three known categories.
	KindOther FailureKind = "other"
)

// ClassifyFailure inspects a non-status error from Deploy and returns its
// transport category. Timeouts are checked first since a timed-out dial also
// surfaces as a *net.OpError.
func ClassifyFailure(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var (
		certVerify *tls.CertificateVerificationError
		recordHdr  tls.RecordHeaderError
		unknownCA  x509.UnknownAuthorityError
		hostname   x509.HostnameError
		certErr    x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &certVerify),
		errors.As(err, &recordHdr),
		errors.As(err, &unknownCA),
		errors.As(err, &hostname),
		errors.As(err, &certErr):
		return KindTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	return KindOther
}
