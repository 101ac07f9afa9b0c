// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package apiRouter

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"

	"github.com/pixlise/cubegeom/api/services"
	"github.com/pixlise/cubegeom/core/errorwithstatus"
	"github.com/pixlise/cubegeom/core/logger"
)

// Handlers get the services object and the request, return an error. If the
// error satisfies errorwithstatus.Error its status code is sent, anything
// else becomes a 500.

type ApiHandlerParams struct {
	Svcs       *services.APIServices
	PathParams map[string]string
	Writer     http.ResponseWriter
	Request    *http.Request
}

type ApiHandlerFunc func(ApiHandlerParams) error

type apiHandler struct {
	Svcs    *services.APIServices
	Handler ApiHandlerFunc
}

func (h apiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h.Handler(ApiHandlerParams{h.Svcs, mux.Vars(r), w, r})
	if err != nil {
		logHandlerErrors(err, h.Svcs.Log, w, r)
	}
}

type ApiObjectRouter struct {
	Svcs   *services.APIServices
	Router *mux.Router
}

func NewAPIRouter(svcs *services.APIServices, router *mux.Router) ApiObjectRouter {
	return ApiObjectRouter{Svcs: svcs, Router: router}
}

func (r *ApiObjectRouter) AddHandler(path string, method string, handleFunc ApiHandlerFunc) {
	var handler http.Handler = apiHandler{Svcs: r.Svcs, Handler: handleFunc}

	// If needed, wrap in a sentry handler
	if r.Svcs.Config.EnvironmentName != "unit-test" && r.Svcs.Config.EnvironmentName != "local" {
		sentryHandler := sentryhttp.New(sentryhttp.Options{
			Repanic:         true,
			WaitForDelivery: true,
		})

		handler = sentryHandler.Handle(handler)
	}

	r.Router.Handle(path, handler).Methods(method)
}

func logHandlerErrors(err error, log logger.ILogger, w http.ResponseWriter, r *http.Request) {
	if statusErr, ok := err.(errorwithstatus.Error); ok {
		log.Errorf("HTTP %v (%v %v): %v", statusErr.Status(), r.Method, r.URL.Path, statusErr)
		http.Error(w, statusErr.Error(), statusErr.Status())
		return
	}

	// Anything untyped is our bug, don't leak details to the caller
	log.Errorf("HTTP 500 (%v %v): %v", r.Method, r.URL.Path, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
