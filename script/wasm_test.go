package script

// Minimal binary module encoder for tests. Indices and sizes stay below 128
// so every LEB128 value is a single byte.

const (
	i32 = 0x7f
	i64 = 0x7e
)

const (
	opUnreachable = 0x00
	opCall        = 0x10
	opDrop        = 0x1a
	opLocalGet    = 0x20
	opI64Eq       = 0x51
	opI64LtS      = 0x53
	opI64GtS      = 0x55
	opI32Sub      = 0x6b
	opEnd         = 0x0b
)

type funcType struct {
	params, results []byte
}

type wasmImport struct {
	module, name string
	typ          byte
}

type wasmFunc struct {
	export string
	typ    byte
	body   []byte
}

type wasmModule struct {
	types   []funcType
	imports []wasmImport
	funcs   []wasmFunc
}

func (m wasmModule) encode() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var types []byte
	for _, t := range m.types {
		types = append(types, 0x60, byte(len(t.params)))
		types = append(types, t.params...)
		types = append(types, byte(len(t.results)))
		types = append(types, t.results...)
	}
	out = section(out, 1, len(m.types), types)

	if len(m.imports) > 0 {
		var imports []byte
		for _, imp := range m.imports {
			imports = appendName(imports, imp.module)
			imports = appendName(imports, imp.name)
			imports = append(imports, 0x00, imp.typ)
		}
		out = section(out, 2, len(m.imports), imports)
	}

	var funcs, exports, code []byte
	for i, f := range m.funcs {
		funcs = append(funcs, f.typ)
		exports = appendName(exports, f.export)
		exports = append(exports, 0x00, byte(len(m.imports)+i))
		body := append([]byte{0x00}, f.body...)
		body = append(body, opEnd)
		code = append(code, byte(len(body)))
		code = append(code, body...)
	}
	out = section(out, 3, len(m.funcs), funcs)
	out = section(out, 7, len(m.funcs), exports)
	out = section(out, 10, len(m.funcs), code)
	return out
}

func section(out []byte, id byte, count int, content []byte) []byte {
	payload := append([]byte{byte(count)}, content...)
	out = append(out, id, byte(len(payload)))
	return append(out, payload...)
}

func appendName(b []byte, s string) []byte {
	b = append(b, byte(len(s)))
	return append(b, s...)
}

// valueOf pushes the host value of the ref in local idx.
func valueOf(idx byte) []byte {
	return []byte{opLocalGet, idx, opCall, 0}
}

// compareBody orders by host value: (a > b) - (a < b).
func compareBody() []byte {
	var b []byte
	b = append(b, valueOf(0)...)
	b = append(b, valueOf(1)...)
	b = append(b, opI64GtS)
	b = append(b, valueOf(0)...)
	b = append(b, valueOf(1)...)
	b = append(b, opI64LtS, opI32Sub)
	return b
}

func equalsBody() []byte {
	var b []byte
	b = append(b, valueOf(0)...)
	b = append(b, valueOf(1)...)
	return append(b, opI64Eq)
}

// guestModule exports box_cmp, box_eq, box_trap, and box_wide. With poke
// set it also imports env.poke and calls it from box_cmp before comparing.
func guestModule(poke bool) []byte {
	m := wasmModule{
		types: []funcType{
			{params: []byte{i32}, results: []byte{i64}},
			{params: []byte{i32, i32}, results: []byte{i32}},
			{params: []byte{i32}, results: []byte{i32}},
			{params: []byte{i32, i32}, results: []byte{i64}},
		},
		imports: []wasmImport{{module: "env", name: "value", typ: 0}},
	}
	cmp := compareBody()
	if poke {
		m.imports = append(m.imports, wasmImport{module: "env", name: "poke", typ: 2})
		cmp = append([]byte{opLocalGet, 0, opCall, 1, opDrop}, cmp...)
	}
	m.funcs = []wasmFunc{
		{export: "box_cmp", typ: 1, body: cmp},
		{export: "box_eq", typ: 1, body: equalsBody()},
		{export: "box_trap", typ: 1, body: []byte{opUnreachable}},
		{export: "box_wide", typ: 3, body: valueOf(0)},
	}
	return m.encode()
}
