package output

// mockBackend records every call and counts outstanding handles so tests
// can assert that no handle survives a write call, and injects failures
// at chosen steps.

type mockRegion struct {
	name   string
	onDisk Datatype
	shape  []uint64
	plan   Layout
}

type mockObject struct {
	path string
}

type mockWrite struct {
	region  *mockRegion
	memType Datatype
	raw     []byte
}

type mockAttr struct {
	path  string
	name  string
	typ   Datatype
	value []byte
}

type mockBackend struct {
	created bool
	closed  bool

	openRegions int
	openObjects int

	regions []*mockRegion
	writes  []mockWrite
	attrs   []mockAttr

	failCreateContainer error
	failClose           error
	failCreateRegion    error
	failWriteRegion     error
	failOpenObject      error
	failAttribute       error
}

func (m *mockBackend) CreateContainer(path string) error {
	if m.failCreateContainer != nil {
		return m.failCreateContainer
	}
	m.created = true
	return nil
}

func (m *mockBackend) CloseContainer() error {
	if m.failClose != nil {
		return m.failClose
	}
	m.closed = true
	return nil
}

func (m *mockBackend) CreateRegion(name string, onDisk Datatype, shape []uint64, plan Layout) (RegionHandle, error) {
	if m.failCreateRegion != nil {
		return nil, m.failCreateRegion
	}
	r := &mockRegion{name: name, onDisk: onDisk, shape: shape, plan: plan}
	m.regions = append(m.regions, r)
	m.openRegions++
	return r, nil
}

func (m *mockBackend) WriteRegion(r RegionHandle, memType Datatype, raw []byte) error {
	if m.failWriteRegion != nil {
		return m.failWriteRegion
	}
	m.writes = append(m.writes, mockWrite{region: r.(*mockRegion), memType: memType, raw: raw})
	return nil
}

func (m *mockBackend) ReleaseRegion(r RegionHandle) error {
	m.openRegions--
	return nil
}

func (m *mockBackend) OpenObject(path string) (ObjectHandle, error) {
	if m.failOpenObject != nil {
		return nil, m.failOpenObject
	}
	m.openObjects++
	return &mockObject{path: path}, nil
}

func (m *mockBackend) WriteScalarAttribute(obj ObjectHandle, name string, typ Datatype, value []byte) error {
	if m.failAttribute != nil {
		return m.failAttribute
	}
	m.attrs = append(m.attrs, mockAttr{path: obj.(*mockObject).path, name: name, typ: typ, value: value})
	return nil
}

func (m *mockBackend) ReleaseObject(obj ObjectHandle) error {
	m.openObjects--
	return nil
}

// failRecorder stands in for the fatal path so tests can assert "would
// abort" without terminating the process.
type failRecorder struct {
	msgs []string
}

func (r *failRecorder) handler(msg string) { r.msgs = append(r.msgs, msg) }

func newMockFile() (*File, *mockBackend, *failRecorder) {
	backend := &mockBackend{}
	rec := &failRecorder{}
	f := New(WithBackend(backend), WithFailHandler(rec.handler))
	return f, backend, rec
}
