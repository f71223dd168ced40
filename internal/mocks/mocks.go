package mocks

import "github.com/pageza/glucolink/backend/internal/service"

var (
	_ service.IAuthService    = (*MockAuthService)(nil)
	_ service.IProfileService = (*MockProfileService)(nil)
	_ service.ILinkService    = (*MockLinkService)(nil)
	_ service.IScopeResolver  = (*MockScopeResolver)(nil)
	_ service.IGlucoseService = (*MockGlucoseService)(nil)
	_ service.IReportService  = (*MockReportService)(nil)
)
