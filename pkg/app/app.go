// Package app runs the meter's long-lived services as one group: the first
// service to return stops all the others.
package app

import (
	"context"

	"github.com/oklog/run"
)

// Service is a long-running part of the program.
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context) error

// Run calls f.
func (f ServiceFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// App is a group of services.
type App struct {
	services []Service
}

// New creates an empty App.
func New() *App {
	return &App{}
}

// WithService adds s to the group.
func (a *App) WithService(s Service) *App {
	a.services = append(a.services, s)
	return a
}

// Run starts every service and returns the error of the first one to exit
// once all have stopped.
func (a *App) Run(ctx context.Context) error {
	var g run.Group
	for _, s := range a.services {
		g.Add(actor(ctx, s))
	}
	return g.Run()
}

func actor(ctx context.Context, s Service) (func() error, func(error)) {
	ctx, cancel := context.WithCancelCause(ctx)

	return func() error {
			return s.Run(ctx)
		}, func(err error) {
			cancel(err)
		}
}
