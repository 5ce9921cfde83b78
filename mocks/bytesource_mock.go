// Package mocks provides a hand-maintained gomock double for fat32report.ByteSource,
// used to inject short reads and I/O errors that a real file or afero.MemMapFs
// fixture cannot easily produce on demand.
package mocks

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockByteSource is a mock of the ByteSource interface.
type MockByteSource struct {
	ctrl     *gomock.Controller
	recorder *MockByteSourceMockRecorder
}

// MockByteSourceMockRecorder is the mock recorder for MockByteSource.
type MockByteSourceMockRecorder struct {
	mock *MockByteSource
}

// NewMockByteSource creates a new mock instance.
func NewMockByteSource(ctrl *gomock.Controller) *MockByteSource {
	mock := &MockByteSource{ctrl: ctrl}
	mock.recorder = &MockByteSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockByteSource) EXPECT() *MockByteSourceMockRecorder {
	return m.recorder
}

// ReadAt mocks base method.
func (m *MockByteSource) ReadAt(p []byte, off int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadAt", p, off)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ReadAt indicates an expected call of ReadAt.
func (mr *MockByteSourceMockRecorder) ReadAt(p, off interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadAt", reflect.TypeOf((*MockByteSource)(nil).ReadAt), p, off)
}

// Len mocks base method.
func (m *MockByteSource) Len() int64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Len")
	ret0, _ := ret[0].(int64)
	return ret0
}

// Len indicates an expected call of Len.
func (mr *MockByteSourceMockRecorder) Len() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Len", reflect.TypeOf((*MockByteSource)(nil).Len))
}
