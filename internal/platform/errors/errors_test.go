package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := stderrs.New("boom")
	err := Wrapf(cause, ErrorCodeValidation, "bad bucket %q", "role_play")

	if got := err.Error(); got != `bad bucket "role_play": boom` {
		t.Fatalf("Error() = %q", got)
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("wrapped cause not reachable via errors.Is")
	}
	if Root(err) != cause {
		t.Fatalf("Root should return the deepest cause")
	}
}

func TestCodeOf_AndHTTPMapping(t *testing.T) {
	tests := []struct {
		err    error
		code   ErrorCode
		status int
	}{
		{Validationf("negative weight"), ErrorCodeValidation, http.StatusBadRequest},
		{JSONErrf("trailing data"), ErrorCodeJSON, http.StatusBadRequest},
		{InvalidArgf("bad path"), ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{NotFoundf("no such bucket"), ErrorCodeNotFound, http.StatusNotFound},
		{PanicErrf("panic recovered"), ErrorCodePanic, http.StatusInternalServerError},
		{Internalf("??"), ErrorCodeUnknown, http.StatusInternalServerError},
		{stderrs.New("foreign"), ErrorCodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := CodeOf(tc.err); got != tc.code {
			t.Fatalf("CodeOf(%v) = %d, want %d", tc.err, got, tc.code)
		}
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
		}
		if !IsCode(tc.err, tc.code) {
			t.Fatalf("IsCode(%v, %d) = false", tc.err, tc.code)
		}
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(WithField(Validationf("too short"), "text"))
	if w.Code != ErrorCodeValidation || w.Message != "too short" || w.Field != "text" {
		t.Fatalf("wire = %+v", w)
	}

	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil should produce zero Wire, got %+v", w)
	}

	w = WireFrom(stderrs.New("foreign"))
	if w.Code != ErrorCodeUnknown || w.Message != "foreign" {
		t.Fatalf("foreign wire = %+v", w)
	}
}

func TestWithOp_CopyOnWrite(t *testing.T) {
	base := Validationf("nope")
	tagged := WithOp(base, "rulepack.Compile")

	e, ok := As(tagged)
	if !ok || e.Op() != "rulepack.Compile" {
		t.Fatalf("op not attached: %+v", e)
	}
	if b, _ := As(base); b.Op() != "" {
		t.Fatalf("WithOp mutated the original")
	}
}

func TestHTTP_Bundle(t *testing.T) {
	status, wire := HTTP(nil)
	if status != http.StatusOK || wire != (Wire{}) {
		t.Fatalf("HTTP(nil) = %d %+v", status, wire)
	}
	status, wire = HTTP(NotFoundf("gone"))
	if status != http.StatusNotFound || wire.Message != "gone" {
		t.Fatalf("HTTP(err) = %d %+v", status, wire)
	}
}
