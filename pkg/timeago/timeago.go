// Package timeago 生成面向界面的相对时间文案
package timeago

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Format 返回 then 相对 now 的描述：
//
//	< 1 小时      "Less than an hour ago"
//	< 24 小时     "1 hour ago" / "N hours ago"
//	< 7 天        "1 day ago" / "N days ago"
//	其余          then 在 loc 时区下的 M/D/YYYY
//
// 未来时间按 "Less than an hour ago" 处理。
func Format(then, now time.Time, loc *time.Location) string {
	diff := now.Sub(then)
	switch {
	case diff < time.Hour:
		return "Less than an hour ago"
	case diff < week:
		return humanize.RelTime(then, now, "ago", "from now")
	default:
		if loc == nil {
			loc = time.Local
		}
		return then.In(loc).Format("1/2/2006")
	}
}
