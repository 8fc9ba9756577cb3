package tick

import "fmt"

// Inspector 提供调度器统计和订阅者监控功能
type Inspector struct {
	scheduler *Scheduler
}

// NewInspector 创建新的 Inspector
func NewInspector(scheduler *Scheduler) *Inspector {
	return &Inspector{scheduler: scheduler}
}

// Stats 返回整体统计信息的快照
func (i *Inspector) Stats() *Stats {
	return i.scheduler.Stats()
}

// Subscribers 返回所有订阅者的信息，按订阅顺序
func (i *Inspector) Subscribers() []SubscriberInfo {
	subs := i.scheduler.subscribers()

	infos := make([]SubscriberInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, describe(sub))
	}
	return infos
}

// Subscriber 返回单个订阅者的信息
func (i *Inspector) Subscriber(name string) (*SubscriberInfo, error) {
	sub, ok := i.scheduler.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	info := describe(sub)
	return &info, nil
}

// describe 生成订阅者信息
func describe(sub *subscription) SubscriberInfo {
	info := SubscriberInfo{Name: sub.name}

	if cd, ok := sub.tickable.(Countdown); ok {
		info.Countdown = true
		info.RemainingTicks = cd.RemainingTicks()
		info.RemainingTime = cd.RemainingTime()
		info.Running = cd.IsRunning()
	}

	return info
}
