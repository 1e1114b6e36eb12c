package array

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	scerrors "github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/heap"
	"github.com/wippyai/script-array/typeinfo"
)

type plainFactory struct{}

func (plainFactory) Construct() (typeinfo.Ref, error)        { return 1, nil }
func (plainFactory) Copy(typeinfo.Ref) (typeinfo.Ref, error) { return 1, nil }
func (plainFactory) Assign(_, _ typeinfo.Ref) error          { return nil }
func (plainFactory) Destroy(typeinfo.Ref)                    {}

func TestValidate(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := heap.NewStore()
	reg := typeinfo.NewRegistry(typeinfo.Options{Logger: zap.New(core)})
	var diags []typeinfo.Diagnostic
	reg.OnDiagnostic(func(d typeinfo.Diagnostic) { diags = append(diags, d) })

	value, err := heap.NewValueClass[int](store).Register(reg, "value")
	if err != nil {
		t.Fatal(err)
	}
	ref, err := heap.NewRefClass[int](store).Register(reg, "ref", typeinfo.WithGC())
	if err != nil {
		t.Fatal(err)
	}
	blind, err := reg.RegisterValue("blind", plainFactory{}, typeinfo.WithGC())
	if err != nil {
		t.Fatal(err)
	}
	s32 := reg.Primitive(typeinfo.KindS32)

	tests := []struct {
		name        string
		sub         typeinfo.Subtype
		wantTracked bool
		rejected    bool
		wantErr     string
	}{
		{"primitive", typeinfo.Of(s32), false, false, ""},
		{"value", typeinfo.Of(value), false, false, ""},
		{"handle", typeinfo.HandleOf(ref), true, false, ""},
		{"const handle", typeinfo.ConstHandleOf(ref), true, false, ""},
		{"GC value without enumerator", typeinfo.Of(blind), false, false, "The subtype takes part in cycles but its factory cannot enumerate references"},
		{"const value", typeinfo.Subtype{Type: value, Const: true}, false, true, "Only handles can be const qualified"},
		{"handle to primitive", typeinfo.HandleOf(s32), false, true, "Handles to primitive types are not allowed"},
		{"handle to value type", typeinfo.HandleOf(value), false, true, "The subtype is not a reference type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags = nil
			tracked, err := Validate(tt.sub)
			if tt.rejected {
				if !errors.Is(err, &scerrors.Error{Kind: scerrors.KindRegistration}) {
					t.Fatalf("err = %v, want registration error", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tracked != tt.wantTracked {
				t.Errorf("tracked = %v, want %v", tracked, tt.wantTracked)
			}

			if tt.wantErr == "" {
				if len(diags) != 0 {
					t.Errorf("unexpected diagnostics %v", diags)
				}
				return
			}
			if len(diags) != 1 {
				t.Fatalf("diagnostics = %v, want one", diags)
			}
			if diags[0].Message != tt.wantErr {
				t.Errorf("message = %q, want %q", diags[0].Message, tt.wantErr)
			}
			if want := "array<" + tt.sub.String() + ">"; diags[0].Section != want {
				t.Errorf("section = %q, want %q", diags[0].Section, want)
			}
		})
	}

	if logs.Len() != 4 {
		t.Errorf("warn log entries = %d, want 4", logs.Len())
	}
	if _, err := Validate(typeinfo.Subtype{}); !errors.Is(err, &scerrors.Error{Kind: scerrors.KindInvalidInput}) {
		t.Errorf("Validate of empty subtype err = %v", err)
	}
	if _, err := New(typeinfo.HandleOf(s32)); err == nil {
		t.Error("New accepted a handle to a primitive")
	}
}
