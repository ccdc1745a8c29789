package mocks

import (
	"github.com/bitrise-steplib/steps-go-test-junit-reporter/reporter"
	"github.com/stretchr/testify/mock"
)

type Listener struct {
	mock.Mock
}

func (_m *Listener) OnStart() error {
	args := _m.Called()
	return args.Error(0)
}

func (_m *Listener) OnPass(test reporter.Test) {
	_m.Called(test)
}

func (_m *Listener) OnFail(test reporter.Test, err error) {
	_m.Called(test, err)
}

func (_m *Listener) OnEnd() error {
	args := _m.Called()
	return args.Error(0)
}
