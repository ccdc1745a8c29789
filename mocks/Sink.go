package mocks

import "github.com/stretchr/testify/mock"

type Sink struct {
	mock.Mock
}

func (_m *Sink) Remove(path string) error {
	args := _m.Called(path)
	return args.Error(0)
}

func (_m *Sink) Write(path string, content []byte) error {
	args := _m.Called(path, content)
	return args.Error(0)
}
