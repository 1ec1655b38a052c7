// Package content serves the static editorial data shipped with the
// app: blog posts and the student discount/opportunity directory.
package content

import "time"

type Post struct {
	ID          int
	Title       string
	Author      string
	Category    string
	Content     string
	PublishedAt time.Time
}

var posts = []Post{
	{
		ID:          1,
		Title:       "Budgeting 101: A Student's Guide",
		Author:      "Sarah Johnson",
		Category:    "Budgeting",
		PublishedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Content: `Budgeting is the foundation of financial health, especially for students.

1. Track your income: know exactly how much money you have coming in each month.
2. List your expenses: write down all your regular expenses - rent, food, transportation.
3. Use the 50/30/20 rule: allocate 50% for needs, 30% for wants, and 20% for savings.
4. Review weekly: check your budget weekly to stay on track.

A budget isn't about restricting yourself - it's about understanding where your money goes so you can make informed decisions.`,
	},
	{
		ID:          2,
		Title:       "How to Save Money on Textbooks",
		Author:      "Mike Chen",
		Category:    "Saving Tips",
		PublishedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Content: `Textbooks can be a huge expense for students. Some ways to save:

1. Buy used: check your campus bookstore's used section or online marketplaces.
2. Rent instead of buy: many services let you rent textbooks for the semester.
3. Use the library: your library may have copies available for short-term borrowing.
4. Digital versions: e-books are often cheaper than physical copies.
5. Share with classmates: split the cost of expensive textbooks.`,
	},
	{
		ID:          3,
		Title:       "Understanding Student Loans",
		Author:      "Dr. Emily Rodriguez",
		Category:    "Financial Literacy",
		PublishedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Content: `Student loans can be confusing. What you need to know:

Types of loans: federal subsidized, federal unsubsidized, and private loans.

Key terms: principal (the amount you borrow), interest (the cost of borrowing),
grace period (time after graduation before payments start).

Tips: only borrow what you need, understand your interest rates, make payments
while in school if possible, and look into loan forgiveness programs.`,
	},
	{
		ID:          4,
		Title:       "Building Credit as a Student",
		Author:      "James Wilson",
		Category:    "Credit",
		PublishedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Content: `Good credit is essential for your financial future. Start building it now:

1. Get a student credit card: many banks offer cards designed for students.
2. Pay bills on time: payment history is the biggest factor in your credit score.
3. Keep utilization low: try to use less than 30% of your credit limit.
4. Don't close old accounts: length of credit history matters.
5. Check your credit report: you're entitled to free annual reports.`,
	},
}

// Posts returns all blog posts, newest first.
func Posts() []Post {
	return append([]Post(nil), posts...)
}

// PostByID returns the post with the given id. The second return is
// false when no post matches.
func PostByID(id int) (Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}
