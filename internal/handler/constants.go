// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the landing page.
	RouteRoot = "/"
	// RouteHome is the signed-in home page.
	RouteHome = "/home"
	// RouteUser is the signup and login form page.
	RouteUser = "/user"
	// RouteDashboard is the profile page, with upcoming registrations for attendees.
	RouteDashboard = "/dashboard"
	// RouteFind is the attendee event search page.
	RouteFind = "/find"
	// RouteFindRegister is the registration action for a found event.
	RouteFindRegister = RouteFind + RouteParamID + "/register"
	// RouteCreate is the organizer event creation form.
	RouteCreate = "/create"
	// RouteManage is the organizer event list.
	RouteManage = "/manage"
	// RouteManageID is the organizer event detail page.
	RouteManageID = RouteManage + RouteParamID
	// RouteManageCancel is the organizer cancel action.
	RouteManageCancel = RouteManageID + "/cancel"
	// RouteHistory is the per-role past events page.
	RouteHistory = "/history"
	// RouteView is the public upcoming events page.
	RouteView = "/view"
	// RouteSignup is the signup form action.
	RouteSignup = "/user/signup"
	// RouteLogin is the login form action.
	RouteLogin = "/user/login"
	// RouteLogout is the logout action.
	RouteLogout = "/logout"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteHealth is the health check endpoint.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness endpoint.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness endpoint.
	RouteHealthReady = "/health/ready"

	// RouteQuery is the development-only dump of the signed-in organizer's events.
	RouteQuery = "/query"
	// RouteTest is the development-only dump of every event row.
	RouteTest = "/test"
)

const (
	redirectLanding   = RouteRoot
	redirectHome      = RouteHome
	redirectUser      = RouteUser
	redirectFind      = RouteFind
	redirectManage    = RouteManage
	redirectManageID  = RouteManage + "/%d"
	redirectDashboard = RouteDashboard
)
