package typeinfo

import (
	"fmt"
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestRegisterWIT(t *testing.T) {
	name := "color"
	tests := []struct {
		name      string
		typ       wit.Type
		opts      []TypeOption
		wantKind  Kind
		wantFlags Flags
		wantErr   bool
	}{
		{"u16", wit.U16{}, nil, KindU16, 0, false},
		{"char", wit.Char{}, nil, KindChar, 0, false},
		{
			name:     "enum",
			typ:      &wit.TypeDef{Name: &name, Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}, {Name: "green"}}}},
			wantKind: KindU8,
		},
		{
			name:     "enum wide",
			typ:      &wit.TypeDef{Kind: &wit.Enum{Cases: makeEnumCases(300)}},
			wantKind: KindU16,
		},
		{
			name:     "flags",
			typ:      &wit.TypeDef{Kind: &wit.Flags{Flags: makeFlags(12)}},
			wantKind: KindU16,
		},
		{
			name:    "flags too wide",
			typ:     &wit.TypeDef{Kind: &wit.Flags{Flags: makeFlags(65)}},
			wantErr: true,
		},
		{
			name:     "alias",
			typ:      &wit.TypeDef{Kind: wit.S64{}},
			wantKind: KindS64,
		},
		{
			name:      "own",
			typ:       &wit.TypeDef{Kind: &wit.Own{}},
			opts:      []TypeOption{WithCounter(nopCounter{})},
			wantKind:  KindObject,
			wantFlags: FlagRef,
		},
		{
			name:    "borrow without counter",
			typ:     &wit.TypeDef{Kind: &wit.Borrow{}},
			wantErr: true,
		},
		{
			name: "record",
			typ: &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
				{Name: "x", Type: wit.S32{}},
				{Name: "y", Type: wit.S32{}},
			}}},
			opts:      []TypeOption{WithFactory(nopFactory{}), WithGC()},
			wantKind:  KindObject,
			wantFlags: FlagValue | FlagGC,
		},
		{
			name:      "list",
			typ:       &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}},
			opts:      []TypeOption{WithFactory(nopFactory{})},
			wantKind:  KindObject,
			wantFlags: FlagValue,
		},
		{
			name:      "string",
			typ:       wit.String{},
			opts:      []TypeOption{WithFactory(nopFactory{})},
			wantKind:  KindObject,
			wantFlags: FlagValue,
		},
		{
			name:    "option without factory",
			typ:     &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}},
			wantErr: true,
		},
		{"nil", nil, nil, 0, 0, true},
	}

	reg := NewRegistry(DefaultOptions())
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := reg.RegisterWIT(fmt.Sprintf("t%d", i), tt.typ, tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("RegisterWIT: %v", err)
			}
			if typ.Kind() != tt.wantKind {
				t.Errorf("Kind = %v, want %v", typ.Kind(), tt.wantKind)
			}
			if typ.Flags() != tt.wantFlags {
				t.Errorf("Flags = %b, want %b", typ.Flags(), tt.wantFlags)
			}
			if typ.WIT() != tt.typ {
				t.Error("WIT() does not return the registered type")
			}
		})
	}
}

func TestRegisterWIT_PrimitiveGCIgnored(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	var warned bool
	reg.OnDiagnostic(func(Diagnostic) { warned = true })

	typ, err := reg.RegisterWIT("tick", wit.U32{}, WithGC())
	if err != nil {
		t.Fatal(err)
	}
	if typ.IsGC() {
		t.Error("primitive type should not keep the GC flag")
	}
	if !warned {
		t.Error("expected a diagnostic")
	}
}

func makeEnumCases(n int) []wit.EnumCase {
	out := make([]wit.EnumCase, n)
	for i := range out {
		out[i].Name = fmt.Sprintf("c%d", i)
	}
	return out
}

func makeFlags(n int) []wit.Flag {
	out := make([]wit.Flag, n)
	for i := range out {
		out[i].Name = fmt.Sprintf("f%d", i)
	}
	return out
}
