// Package submit coordinates form submissions.
//
// A Coordinator owns one form instance's outcome and runs each attempt
// through validation, the backend call and the success hook, then arms a
// timer that returns the outcome to Idle. Timers live in a Scheduler keyed
// by the instance's uuid, so Close on teardown cancels all of them and a
// late timer has nothing to act on.
//
//	c := submit.New(submit.LoginFlow, sched, func(ev submit.Event) { ... })
//	defer c.Close()
//	res, err := c.Submit(ctx, submit.Login(client, store, snapshot))
package submit
