// Package product 版本信息
package product

import (
	"runtime"
	"strings"
)

// UserAgentTemplate 版本字符串模板
const UserAgentTemplate = "Contentio/{version} ({system} {sysArch}) Go/{goVersion}"

// UserAgent 版本字符串，version 命令和诊断日志首行使用
var UserAgent = strings.NewReplacer(
	"{version}", Version,
	"{system}", runtime.GOOS,
	"{sysArch}", runtime.GOARCH,
	"{goVersion}", runtime.Version(),
).Replace(UserAgentTemplate)
