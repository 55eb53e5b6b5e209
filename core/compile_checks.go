package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ ERPService     = (*Service)(nil)
	_ CategoryLookup = AllCategories{}
	_ OrderLookup    = AllOrders{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
