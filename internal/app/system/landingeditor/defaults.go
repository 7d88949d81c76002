package landingeditor

import "github.com/dalemusser/stratacourse/internal/domain/sections"

// DefaultSections is the starter list offered for a new page.
func DefaultSections() sections.List {
	variants := []struct {
		id string
		v  sections.Variant
	}{
		{"hero", sections.Hero{
			Title:    "Tiêu đề chính của trang",
			Subtitle: "Mô tả ngắn về khóa học",
			CTAText:  "Đăng ký ngay",
			CTALink:  "#pricing",
		}},
		{"stats", sections.Stats{Items: []sections.StatItem{
			{Label: "Học viên", Value: "2500+"},
			{Label: "Đánh giá", Value: "4.9"},
		}}},
		{"intro", sections.Content{
			Title:         "Giới thiệu",
			Content:       "<p>Nội dung giới thiệu khóa học.</p>",
			ImagePosition: "right",
		}},
		{"curriculum", sections.Curriculum{}},
		{"benefits", sections.Benefits{
			Title: "Bạn nhận được gì?",
			Items: []sections.Feature{{Title: "Mentor 1-1", Description: "Hỗ trợ trong suốt khóa học"}},
		}},
		{"projects", sections.StudentProjects{Title: "Dự án học viên"}},
		{"testimonials", sections.Testimonials{Title: "Học viên nói gì?"}},
		{"cta", sections.CTA{
			Title:    "Sẵn sàng bắt đầu?",
			Subtitle: "Đăng ký hôm nay để nhận ưu đãi",
			CTALink:  "#pricing",
		}},
	}

	list := make(sections.List, 0, len(variants))
	for _, item := range variants {
		s, err := sections.Build(item.id, item.v)
		if err != nil {
			continue
		}
		list = append(list, s)
	}
	return list
}
