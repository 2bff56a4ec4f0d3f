package web

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/feeds"
	"github.com/iatek/deptadmin/db"
	"github.com/iatek/deptadmin/util"
)

// GetRSS renders the submission inbox as an RSS feed, newest first.
func GetRSS(conf *util.AppConfig, database *db.DB) (string, error) {

	link := fmt.Sprintf("http://%s:%d/feed", conf.Conf.Host, conf.Conf.HttpPort)

	err, submissions := database.ReadAllSubmissions()
	if err != nil || submissions == nil {
		log.Println("Could not get submissions!", err)
		return "", errors.New("error retrieving submissions")
	}

	feed := &feeds.Feed{
		Title:       "Departements - contact submissions",
		Link:        &feeds.Link{Href: link},
		Description: "rss feed of incoming contact form submissions",
		Author:      &feeds.Author{Name: "deptadmin", Email: conf.Conf.AdminEmail},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	for _, sub := range *submissions {
		feedItems = append(feedItems,
			&feeds.Item{
				Id:      sub.Id,
				Title:   fmt.Sprintf("[%s] %s", sub.Service, sub.FullName()),
				Link:    &feeds.Link{Href: fmt.Sprintf("%s/%s", link, sub.Id)},
				Content: sub.Message,
				Author:  &feeds.Author{Name: sub.FullName(), Email: sub.Email},
				Created: sub.CreatedAt,
			})
	}

	feed.Items = feedItems
	return feed.ToRss()
}
