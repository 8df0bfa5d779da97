package constants

// 活动类型常量
const (
	ActivityTypePostSettlement         = "案后结"
	ActivityTypePostSettlementDetached = "案后结(不与总指标挂钩)"
	ActivityTypeSpecialPrice           = "特价"
	ActivityTypeBundledGift            = "随货搭"
)

// ActivityTypes 支持的单品活动类型（按界面展示顺序）
var ActivityTypes = []string{
	ActivityTypePostSettlement,
	ActivityTypePostSettlementDetached,
	ActivityTypeSpecialPrice,
	ActivityTypeBundledGift,
}

// 日期格式常量
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// 商品默认值
const (
	DefaultItemSpec    = 1
	DefaultItemUnit    = "件"
	UnknownItemName    = "未知品名"
	DefaultPageSize    = 20
	MaxPageSize        = 100
	DefaultSQLiteDSN   = "./data/stockflow.db"
	DefaultRedisPrefix = "sf"
)

// 变更事件主题
const (
	EventBrandChanged    = "brand.changed"
	EventItemChanged     = "item.changed"
	EventPurchaseChanged = "purchase.changed"
	EventActivityChanged = "activity.changed"
)

// 异步队列
const (
	QueueDefault   = "default"
	TaskReportWarm = "report:warm"
)
