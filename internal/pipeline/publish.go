package pipeline

import (
	"log"
	"time"

	"github.com/ppps/weatherdesk/internal/indesign"
	"github.com/ppps/weatherdesk/internal/metrics"
)

// Publish writes every available report into the sink. The regional
// texts fill the fixed frames; each city gets the detailed report for
// its frame, or the one-line summary when the detailed fetch came up
// empty. Missing slots are skipped, and sink errors are reported as
// plain diagnostics without stopping the rest of the panel.
func (p *Pipeline) Publish(res *Result, dates []time.Time, sink indesign.Sink) {
	setFrame := func(name, text string) {
		if err := sink.SetFrame(name, text); err != nil {
			metrics.FramesPublished.WithLabelValues("error").Inc()
			log.Printf("publish %s: %v", name, err)
			return
		}
		metrics.FramesPublished.WithLabelValues("ok").Inc()
	}

	if res.Outlook != nil {
		setFrame(indesign.TodayFrame, res.Outlook.TodayText)
		setFrame(indesign.OutlookFrame, res.Outlook.ThreeToFive)
	}

	for i, date := range dates {
		for _, loc := range p.locations {
			key := Key{loc.Name, date}
			report, ok := res.Details[key]
			if !ok {
				report, ok = res.Summaries[key]
			}
			if !ok {
				continue
			}
			setFrame(indesign.CityFrame(loc.Name, i), report.Text)
		}
	}
}
